package vehpos

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hupe1980/vehpos/blobstore"
	"github.com/hupe1980/vehpos/compress"
	"github.com/hupe1980/vehpos/finder"
	"github.com/hupe1980/vehpos/record"
	"github.com/hupe1980/vehpos/resource"
)

// DefaultFileName is the dataset name used when none is given.
const DefaultFileName = "VehiclePositions.dat"

// LoadStats describes how a Dataset was loaded.
type LoadStats struct {
	Source      string        `json:"source"`
	Compression compress.Type `json:"compression"`
	Mapped      bool          `json:"mapped"`

	// StoredBytes is the blob size as stored; DecodedBytes after decompression.
	StoredBytes  int64 `json:"stored_bytes"`
	DecodedBytes int64 `json:"decoded_bytes"`

	Records int `json:"records"`

	ReadDuration   time.Duration `json:"read_duration"`
	DecodeDuration time.Duration `json:"decode_duration"`
	IndexDuration  time.Duration `json:"index_duration"`
}

// Dataset is a loaded, searchable set of vehicle positions.
// It is safe for concurrent queries.
type Dataset struct {
	opts      options
	finder    *finder.Finder
	summary   record.Summary
	stats     LoadStats
	truncated error
}

// LoadFile loads the dataset at path from the local file system.
func LoadFile(ctx context.Context, path string, optFns ...Option) (*Dataset, error) {
	o := applyOptions(optFns)
	store := blobstore.NewLocalStore(filepath.Dir(path), blobstore.WithLogger(o.logger.Logger))
	return Load(ctx, store, filepath.Base(path), optFns...)
}

// Load reads name from store, decompresses it if its name or WithCompression
// says so, decodes every record and sorts them for search.
//
// A truncated final record is not an error unless WithStrictDecode is set;
// the complete records load and Truncated reports the condition.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Dataset, error) {
	o := applyOptions(optFns)
	log := o.logger.WithSource(name)

	ctype := compress.FromName(name)
	if o.compression != nil {
		ctype = *o.compression
	}
	stats := LoadStats{Source: name, Compression: ctype}

	res, err := load(ctx, store, name, ctype, o, &stats)
	if err != nil {
		return nil, err
	}

	summary := record.Summarize(res.vehicles)
	log.LogSummary(ctx, summary)

	indexStart := time.Now()
	ds := newDataset(res.vehicles, o)
	stats.IndexDuration = time.Since(indexStart)
	ds.summary = summary
	ds.stats = stats
	ds.truncated = res.truncated
	return ds, nil
}

type loadResult struct {
	vehicles  []record.Vehicle
	truncated error
}

// load runs the read, decompress and decode stages. The blob and its buffer
// are released on return; decoded records never alias them.
func load(ctx context.Context, store blobstore.BlobStore, name string, ctype compress.Type, o options, stats *LoadStats) (loadResult, error) {
	log := o.logger.WithSource(name)
	mc := o.metricsCollector

	readStart := time.Now()
	fail := func(stage string, err error) error {
		err = &LoadError{Source: name, Stage: stage, cause: err}
		if stage != "decode" {
			mc.RecordLoad(stats.StoredBytes, time.Since(readStart), err)
			log.LogLoad(ctx, stats.StoredBytes, ctype.String(), err)
		}
		return err
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return loadResult{}, fail("open", err)
	}
	defer blob.Close()
	stats.StoredBytes = blob.Size()

	contents, err := blobstore.ReadAll(ctx, blob, func(ro *blobstore.ReadOptions) {
		ro.Controller = o.controller
		if o.readConcurrency > 0 {
			ro.Concurrency = o.readConcurrency
		}
	})
	if err != nil {
		return loadResult{}, fail("read", err)
	}
	defer contents.Release()
	stats.Mapped = contents.Mapped

	// The compressed bytes stay reserved while decoding, so the output may
	// use only what is left of the budget.
	maxSize := int64(-1)
	if avail, limited := o.controller.MemoryAvailable(); limited {
		maxSize = avail
	}
	data, err := compress.Decompress(contents.Data, ctype, maxSize)
	if errors.Is(err, compress.ErrTooLarge) {
		err = fmt.Errorf("%w: %w", resource.ErrMemoryLimit, err)
	}
	if err != nil {
		return loadResult{}, fail("decompress", err)
	}
	if ctype != compress.None {
		if err := o.controller.ReserveMemory(int64(len(data))); err != nil {
			return loadResult{}, fail("decompress", err)
		}
		defer o.controller.ReleaseMemory(int64(len(data)))
	}
	stats.DecodedBytes = int64(len(data))
	stats.ReadDuration = time.Since(readStart)
	mc.RecordLoad(stats.StoredBytes, stats.ReadDuration, nil)
	log.LogLoad(ctx, stats.StoredBytes, ctype.String(), nil)

	decodeStart := time.Now()
	vehicles, derr := record.Decode(data)
	stats.DecodeDuration = time.Since(decodeStart)
	stats.Records = len(vehicles)
	mc.RecordDecode(len(vehicles), derr != nil, stats.DecodeDuration)
	log.LogDecode(ctx, len(vehicles), derr)

	if derr != nil && (o.strict || !errors.Is(derr, record.ErrTruncatedRecord)) {
		return loadResult{}, fail("decode", derr)
	}
	return loadResult{vehicles: vehicles, truncated: derr}, nil
}

// FromVehicles builds a Dataset from records already in memory. It takes
// ownership of vehicles and reorders them.
func FromVehicles(vehicles []record.Vehicle, optFns ...Option) *Dataset {
	o := applyOptions(optFns)

	summary := record.Summarize(vehicles)

	start := time.Now()
	ds := newDataset(vehicles, o)
	ds.summary = summary
	ds.stats = LoadStats{Records: len(vehicles), IndexDuration: time.Since(start)}
	return ds
}

func newDataset(vehicles []record.Vehicle, o options) *Dataset {
	fo := o.finder
	return &Dataset{
		opts:   o,
		finder: finder.New(vehicles, func(opts *finder.Options) { *opts = fo }),
	}
}

// Len returns the number of loaded vehicles.
func (d *Dataset) Len() int {
	if d == nil || d.finder == nil {
		return 0
	}
	return d.finder.Len()
}

// Vehicles returns the loaded vehicles in latitude order. Callers must not
// modify the slice.
func (d *Dataset) Vehicles() []record.Vehicle {
	if d == nil || d.finder == nil {
		return nil
	}
	return d.finder.Vehicles()
}

// Summary returns statistics about the loaded records.
func (d *Dataset) Summary() record.Summary {
	if d == nil {
		return record.Summary{}
	}
	return d.summary
}

// Stats returns load timings and sizes.
func (d *Dataset) Stats() LoadStats {
	if d == nil {
		return LoadStats{}
	}
	return d.stats
}

// Truncated returns the *record.TruncatedRecordError if the input ended in
// the middle of a record, or nil.
func (d *Dataset) Truncated() error {
	if d == nil {
		return nil
	}
	return d.truncated
}

// Nearest returns the vehicle closest to q.
func (d *Dataset) Nearest(ctx context.Context, q finder.Query) (finder.Result, error) {
	if d == nil || d.finder == nil {
		return finder.Result{Query: q}, ErrNoDataset
	}
	if err := ctx.Err(); err != nil {
		return finder.Result{Query: q}, err
	}

	start := time.Now()
	res := d.finder.Nearest(q)
	d.opts.metricsCollector.RecordSearch(res.Evaluated, res.Found, time.Since(start))
	d.opts.logger.LogSearch(ctx, res, nil)
	return res, nil
}

// NearestAll returns one result per query, in query order.
func (d *Dataset) NearestAll(ctx context.Context, queries []finder.Query) ([]finder.Result, error) {
	if d == nil || d.finder == nil {
		return nil, ErrNoDataset
	}

	start := time.Now()
	results, err := d.finder.NearestAll(ctx, queries)
	duration := time.Since(start)

	evaluated := 0
	for i := range results {
		evaluated += results[i].Evaluated
		d.opts.logger.LogSearch(ctx, results[i], nil)
	}
	d.opts.metricsCollector.RecordBatchSearch(len(queries), evaluated, duration, err)
	d.opts.logger.LogBatchSearch(ctx, len(queries), evaluated, err)
	return results, err
}
