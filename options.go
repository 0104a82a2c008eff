package vehpos

import (
	"log/slog"

	"github.com/hupe1980/vehpos/compress"
	"github.com/hupe1980/vehpos/finder"
	"github.com/hupe1980/vehpos/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	finder           finder.Options
	compression      *compress.Type // nil: infer from the blob name
	controller       *resource.Controller
	strict           bool
	readConcurrency  int
}

// Option configures Load and FromVehicles.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vehpos.NewJSONLogger(slog.LevelInfo)
//	ds, _ := vehpos.LoadFile(ctx, path, vehpos.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vehpos.BasicMetricsCollector{}
//	ds, _ := vehpos.LoadFile(ctx, path, vehpos.WithMetricsCollector(metrics))
//	// ... run queries ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, avg evaluated: %.1f\n", stats.SearchCount, stats.SearchAvgEvaluated)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithParallelism sets how many queries NearestAll evaluates concurrently.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.finder.Parallelism = n
	}
}

// WithPruning selects the bound that ends the widening scan.
func WithPruning(p finder.Pruning) Option {
	return func(o *options) {
		o.finder.Pruning = p
	}
}

// WithExhaustive makes every query evaluate every record.
func WithExhaustive(exhaustive bool) Option {
	return func(o *options) {
		o.finder.Exhaustive = exhaustive
	}
}

// WithCompression overrides the compression inferred from the blob name.
func WithCompression(t compress.Type) Option {
	return func(o *options) {
		o.compression = &t
	}
}

// WithResourceController bounds the memory and read bandwidth used by Load.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithReadConcurrency sets the number of parallel ranged reads for blobs
// that are neither mapped nor fetched whole.
func WithReadConcurrency(n int) Option {
	return func(o *options) {
		o.readConcurrency = n
	}
}

// WithStrictDecode makes a truncated final record a load error instead of a
// warning.
func WithStrictDecode() Option {
	return func(o *options) {
		o.strict = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		finder:           finder.DefaultOptions,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
