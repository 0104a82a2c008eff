package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/vehpos"
	"github.com/hupe1980/vehpos/codec"
	"github.com/hupe1980/vehpos/compress"
	"github.com/hupe1980/vehpos/finder"
	"github.com/hupe1980/vehpos/prommetrics"
	"github.com/hupe1980/vehpos/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

// positions are the query points answered by find.
var positions = []finder.Query{
	{ID: 1, Latitude: 34.544909, Longitude: -102.100843},
	{ID: 2, Latitude: 32.345544, Longitude: -99.123124},
	{ID: 3, Latitude: 33.234235, Longitude: -100.214124},
	{ID: 4, Latitude: 35.195739, Longitude: -95.348899},
	{ID: 5, Latitude: 31.895839, Longitude: -97.789573},
	{ID: 6, Latitude: 32.895839, Longitude: -101.789573},
	{ID: 7, Latitude: 34.115839, Longitude: -100.225732},
	{ID: 8, Latitude: 32.335839, Longitude: -99.992232},
	{ID: 9, Latitude: 33.535339, Longitude: -94.792232},
	{ID: 10, Latitude: 32.234235, Longitude: -100.222222},
}

func findCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "dataset file or blob name",
			Value:   vehpos.DefaultFileName,
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "override compression detection: none, zstd or lz4",
		},
		&cli.StringFlag{
			Name:  "pruning",
			Usage: "walk bound: degrees or kilometers",
			Value: finder.PruneDegrees.String(),
		},
		&cli.BoolFlag{
			Name:  "exact",
			Usage: "evaluate every record",
		},
		&cli.IntFlag{
			Name:  "parallelism",
			Usage: "queries answered concurrently",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "text or json",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "codec",
			Usage: "json codec for --output json: go-json or json",
			Value: codec.Default.Name(),
		},
		&cli.Int64Flag{
			Name:  "memory-limit",
			Usage: "maximum bytes a loaded file may occupy (0 = unlimited)",
		},
		&cli.Int64Flag{
			Name:  "io-limit",
			Usage: "maximum remote read rate in bytes per second (0 = unlimited)",
		},
		&cli.IntFlag{
			Name:  "read-concurrency",
			Usage: "parallel ranged reads for remote stores",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail on a truncated final record",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write Prometheus metrics to this file on exit",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "warn",
			EnvVars: []string{"VEHPOS_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "text or json",
			Value:   "text",
			EnvVars: []string{"VEHPOS_LOG_FORMAT"},
		},
	}

	return &cli.Command{
		Name:   "find",
		Usage:  "find the nearest vehicle for each built-in position",
		Flags:  append(flags, storeFlags()...),
		Action: runFind,
	}
}

func runFind(c *cli.Context) error {
	start := time.Now()
	out := c.App.Writer

	enc, err := outputCodec(c)
	if err != nil {
		return err
	}

	opts, err := datasetOptions(c)
	if err != nil {
		return err
	}

	store, name, err := openStore(c, c.String("file"))
	if err != nil {
		return err
	}

	var metrics *prommetrics.Collector
	if c.String("metrics-file") != "" {
		metrics = prommetrics.New(prometheus.Labels{"dataset": name})
		opts = append(opts, vehpos.WithMetricsCollector(metrics))
	}

	ds, err := vehpos.Load(c.Context, store, name, opts...)
	if err != nil {
		return err
	}

	searchStart := time.Now()
	results, err := ds.NearestAll(c.Context, positions)
	if err != nil {
		return err
	}
	searchTime := time.Since(searchStart)

	if enc != nil {
		err = writeJSON(out, enc, ds, results)
	} else {
		writeText(out, ds, results, newTimings(ds.Stats(), searchTime, time.Since(start)))
	}
	if err != nil {
		return err
	}

	if metrics != nil {
		return metrics.WriteToTextfile(c.String("metrics-file"))
	}
	return nil
}

// outputCodec returns nil for text output.
func outputCodec(c *cli.Context) (codec.Codec, error) {
	switch c.String("output") {
	case "text", "":
		return nil, nil
	case "json":
		enc, ok := codec.ByName(c.String("codec"))
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", c.String("codec"))
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("unknown output %q", c.String("output"))
	}
}

func datasetOptions(c *cli.Context) ([]vehpos.Option, error) {
	logger, err := newLogger(c.App.ErrWriter, c.String("log-format"), c.String("log-level"))
	if err != nil {
		return nil, err
	}

	pruning, err := finder.ParsePruning(c.String("pruning"))
	if err != nil {
		return nil, err
	}

	opts := []vehpos.Option{
		vehpos.WithLogger(logger),
		vehpos.WithPruning(pruning),
		vehpos.WithExhaustive(c.Bool("exact")),
		vehpos.WithParallelism(c.Int("parallelism")),
		vehpos.WithResourceController(resource.NewController(resource.Config{
			MemoryLimitBytes:   c.Int64("memory-limit"),
			IOLimitBytesPerSec: c.Int64("io-limit"),
		})),
	}

	if n := c.Int("read-concurrency"); n > 0 {
		opts = append(opts, vehpos.WithReadConcurrency(n))
	}

	if s := c.String("compression"); s != "" {
		t, err := compress.Parse(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vehpos.WithCompression(t))
	}

	if c.Bool("strict") {
		opts = append(opts, vehpos.WithStrictDecode())
	}

	return opts, nil
}

func newLogger(w io.Writer, format, level string) (*vehpos.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	hopts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return vehpos.NewLogger(slog.NewJSONHandler(w, hopts)), nil
	case "text", "":
		return vehpos.NewLogger(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// timings are the phases find reports. Sorting by latitude counts toward
// finding, not toward reading the file.
type timings struct {
	read  time.Duration
	find  time.Duration
	total time.Duration
}

func newTimings(stats vehpos.LoadStats, search, total time.Duration) timings {
	return timings{
		read:  stats.ReadDuration + stats.DecodeDuration,
		find:  stats.IndexDuration + search,
		total: total,
	}
}

func millis(d time.Duration) int64 {
	return d.Round(time.Millisecond).Milliseconds()
}

func writeText(w io.Writer, ds *vehpos.Dataset, results []finder.Result, t timings) {
	fmt.Fprintf(w, "File reading execution time: %d milliseconds\n", millis(t.read))
	fmt.Fprintf(w, "Number of items read from the file: %d\n", ds.Len())
	fmt.Fprintf(w, "Finding closest vehicle execution time: %d milliseconds\n", millis(t.find))

	for _, r := range results {
		fmt.Fprintf(w, "Pos %d: {ID: %d, Registration: %s}\n", r.Query.ID, r.VehicleID, r.Registration)
	}

	fmt.Fprintf(w, "Total execution time: %d milliseconds\n", millis(t.total))
}

// writeJSON writes the load statistics followed by one line per result.
func writeJSON(w io.Writer, enc codec.Codec, ds *vehpos.Dataset, results []finder.Result) error {
	lines := make([]any, 0, len(results)+1)
	lines = append(lines, ds.Stats())
	for _, r := range results {
		lines = append(lines, r)
	}

	for _, v := range lines {
		b, err := enc.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}
