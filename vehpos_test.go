package vehpos

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hupe1980/vehpos/blobstore"
	"github.com/hupe1980/vehpos/compress"
	"github.com/hupe1980/vehpos/finder"
	"github.com/hupe1980/vehpos/record"
	"github.com/hupe1980/vehpos/resource"
	"github.com/hupe1980/vehpos/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, vehicles []record.Vehicle) []byte {
	t.Helper()
	data, err := record.Encode(vehicles)
	require.NoError(t, err)
	return data
}

func queries(points []testutil.Point) []finder.Query {
	qs := make([]finder.Query, len(points))
	for i, p := range points {
		qs[i] = finder.Query{ID: i + 1, Latitude: p.Latitude, Longitude: p.Longitude}
	}
	return qs
}

func TestLoadFile(t *testing.T) {
	rng := testutil.NewRNG(1)
	vehicles := rng.Vehicles(2000, testutil.ContinentalUS)

	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, encode(t, vehicles), 0o600))

	ctx := context.Background()
	ds, err := LoadFile(ctx, path, WithParallelism(4))
	require.NoError(t, err)

	assert.Equal(t, len(vehicles), ds.Len())
	assert.NoError(t, ds.Truncated())
	assert.Equal(t, len(vehicles), ds.Summary().Records)

	stats := ds.Stats()
	assert.Equal(t, DefaultFileName, stats.Source)
	assert.True(t, stats.Mapped)
	assert.Equal(t, compress.None, stats.Compression)
	assert.Equal(t, stats.StoredBytes, stats.DecodedBytes)
	assert.Equal(t, len(vehicles), stats.Records)

	qs := queries(rng.Points(50, testutil.ContinentalUS))
	results, err := ds.NearestAll(ctx, qs)
	require.NoError(t, err)
	require.Len(t, results, len(qs))

	for i, r := range results {
		idx, want := testutil.BruteForceNearest(vehicles, qs[i].Latitude, qs[i].Longitude)
		require.True(t, r.Found)
		assert.Equal(t, qs[i], r.Query)
		assert.InDelta(t, want, r.DistanceKm, 1e-9)
		if r.VehicleID == vehicles[idx].ID {
			assert.Equal(t, vehicles[idx].Registration, r.Registration)
		}
	}
}

func TestLoad_Compressed(t *testing.T) {
	ctx := context.Background()
	vehicles := testutil.NewRNG(2).Vehicles(500, testutil.ContinentalUS)
	raw := encode(t, vehicles)
	store := blobstore.NewMemoryStore()

	for _, typ := range []compress.Type{compress.ZSTD, compress.LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			packed, err := compress.Compress(raw, typ)
			require.NoError(t, err)

			name := DefaultFileName + typ.Ext()
			require.NoError(t, store.Put(ctx, name, packed))

			ds, err := Load(ctx, store, name)
			require.NoError(t, err)
			assert.Equal(t, len(vehicles), ds.Len())
			assert.Equal(t, typ, ds.Stats().Compression)
			assert.Equal(t, int64(len(packed)), ds.Stats().StoredBytes)
			assert.Equal(t, int64(len(raw)), ds.Stats().DecodedBytes)
			assert.False(t, ds.Stats().Mapped)

			// Forced compression ignores the name.
			require.NoError(t, store.Put(ctx, "opaque", packed))
			ds, err = Load(ctx, store, "opaque", WithCompression(typ))
			require.NoError(t, err)
			assert.Equal(t, len(vehicles), ds.Len())
		})
	}

	t.Run("Corrupt", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "bad.zst", raw))

		_, err := Load(ctx, store, "bad.zst")
		var le *LoadError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "decompress", le.Stage)
		assert.Equal(t, "bad.zst", le.Source)
	})
}

func TestLoad_Truncated(t *testing.T) {
	ctx := context.Background()
	vehicles := testutil.NewRNG(3).Vehicles(10, testutil.ContinentalUS)
	data := encode(t, vehicles)
	cut := data[:len(data)-3]

	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "cut.dat", cut))

	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &BasicMetricsCollector{}

	ds, err := Load(ctx, store, "cut.dat", WithLogger(logger), WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, 9, ds.Len())

	var te *record.TruncatedRecordError
	require.True(t, errors.As(ds.Truncated(), &te))
	assert.Equal(t, 9, te.Decoded)
	assert.Contains(t, logs.String(), "dataset truncated")
	assert.Equal(t, int64(1), metrics.GetStats().TruncatedLoads)

	_, err = Load(ctx, store, "cut.dat", WithStrictDecode())
	assert.ErrorIs(t, err, record.ErrTruncatedRecord)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "decode", le.Stage)
}

func TestLoad_Empty(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "empty.dat", nil))

	var logs bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&logs, nil))

	ds, err := Load(ctx, store, "empty.dat", WithLogger(logger))
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
	assert.Contains(t, logs.String(), "dataset is empty")

	results, err := ds.NearestAll(ctx, []finder.Query{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Found)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	t.Run("NotFound", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		_, err := Load(ctx, store, "missing.dat", WithMetricsCollector(metrics))
		assert.ErrorIs(t, err, blobstore.ErrNotFound)

		var le *LoadError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, "open", le.Stage)
		assert.Equal(t, int64(1), metrics.GetStats().LoadErrors)
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		data := encode(t, testutil.NewRNG(4).Vehicles(100, testutil.ContinentalUS))
		require.NoError(t, store.Put(ctx, "big.dat", data))

		ctrl := resource.NewController(resource.Config{MemoryLimitBytes: int64(len(data) - 1)})
		_, err := Load(ctx, store, "big.dat", WithResourceController(ctrl))
		assert.ErrorIs(t, err, resource.ErrMemoryLimit)
		assert.Zero(t, ctrl.MemoryUsage())

		ctrl = resource.NewController(resource.Config{MemoryLimitBytes: int64(len(data))})
		ds, err := Load(ctx, store, "big.dat", WithResourceController(ctrl), WithReadConcurrency(2))
		require.NoError(t, err)
		assert.Equal(t, 100, ds.Len())
		assert.Zero(t, ctrl.MemoryUsage(), "reservation released after load")
	})

	t.Run("MemoryLimitCompressed", func(t *testing.T) {
		raw := encode(t, testutil.NewRNG(5).Vehicles(5000, testutil.ContinentalUS))

		for _, typ := range []compress.Type{compress.ZSTD, compress.LZ4} {
			packed, err := compress.Compress(raw, typ)
			require.NoError(t, err)

			name := "expands.dat" + typ.Ext()
			require.NoError(t, store.Put(ctx, name, packed))

			// The compressed blob fits; its decoded form does not.
			ctrl := resource.NewController(resource.Config{MemoryLimitBytes: int64(len(packed) + len(raw)/2)})
			_, err = Load(ctx, store, name, WithResourceController(ctrl))
			assert.ErrorIs(t, err, resource.ErrMemoryLimit, typ.String())
			assert.ErrorIs(t, err, compress.ErrTooLarge, typ.String())

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, "decompress", le.Stage)
			assert.Zero(t, ctrl.MemoryUsage())

			ctrl = resource.NewController(resource.Config{MemoryLimitBytes: int64(len(packed) + len(raw))})
			ds, err := Load(ctx, store, name, WithResourceController(ctrl))
			require.NoError(t, err, typ.String())
			assert.Equal(t, 5000, ds.Len())
			assert.Zero(t, ctrl.MemoryUsage())
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "c.dat", []byte{1, 0, 0, 0, 0}))
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Load(canceled, store, "c.dat")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDataset_KnownMinimum(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	ds := FromVehicles([]record.Vehicle{
		{ID: 1, Registration: "ONE", Latitude: 34.5, Longitude: -102.1},
		{ID: 2, Registration: "TWO", Latitude: 32.3, Longitude: -99.1},
		{ID: 3, Registration: "THREE", Latitude: 33.2, Longitude: -100.2},
	}, WithMetricsCollector(metrics), WithPruning(finder.PruneKilometers))

	res, err := ds.Nearest(ctx, finder.Query{ID: 1, Latitude: 34.544909, Longitude: -102.100843})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, int32(1), res.VehicleID)
	assert.Equal(t, "ONE", res.Registration)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SearchCount)
	assert.Greater(t, stats.SearchAvgEvaluated, 0.0)
	assert.Equal(t, 3, ds.Summary().Records)
}

func TestDataset_ModesAgree(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)
	vehicles := rng.Vehicles(3000, testutil.ContinentalUS)
	qs := queries(rng.Points(40, testutil.ContinentalUS))

	run := func(opts ...Option) []finder.Result {
		res, err := FromVehicles(slices.Clone(vehicles), opts...).NearestAll(ctx, qs)
		require.NoError(t, err)
		return res
	}

	def := run()
	km := run(WithPruning(finder.PruneKilometers), WithParallelism(4))
	exact := run(WithExhaustive(true))

	for i := range qs {
		assert.InDelta(t, exact[i].DistanceKm, def[i].DistanceKm, 1e-9)
		assert.InDelta(t, exact[i].DistanceKm, km[i].DistanceKm, 1e-9)
		assert.Equal(t, len(vehicles), exact[i].Evaluated)
	}
}

func TestDataset_NotLoaded(t *testing.T) {
	ctx := context.Background()

	var ds *Dataset
	_, err := ds.Nearest(ctx, finder.Query{ID: 1})
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = ds.NearestAll(ctx, []finder.Query{{ID: 1}})
	assert.ErrorIs(t, err, ErrNoDataset)
	assert.Zero(t, ds.Len())
	assert.Nil(t, ds.Vehicles())
	assert.NoError(t, ds.Truncated())

	_, err = (&Dataset{}).Nearest(ctx, finder.Query{})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestDataset_NearestCanceled(t *testing.T) {
	ds := FromVehicles(testutil.NewRNG(6).Vehicles(10, testutil.ContinentalUS))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ds.Nearest(ctx, finder.Query{ID: 1})
	assert.ErrorIs(t, err, context.Canceled)

	metrics := &BasicMetricsCollector{}
	ds = FromVehicles(testutil.NewRNG(6).Vehicles(10, testutil.ContinentalUS), WithMetricsCollector(metrics))
	_, err = ds.NearestAll(ctx, []finder.Query{{ID: 1}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), metrics.GetStats().BatchErrors)
}

func TestOptions_NilFallbacks(t *testing.T) {
	o := applyOptions([]Option{nil, WithLogger(nil), WithMetricsCollector(nil)})
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
	assert.Equal(t, finder.DefaultOptions, o.finder)
}
