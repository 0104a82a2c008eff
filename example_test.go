package vehpos_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/vehpos"
	"github.com/hupe1980/vehpos/blobstore"
	"github.com/hupe1980/vehpos/compress"
	"github.com/hupe1980/vehpos/finder"
	"github.com/hupe1980/vehpos/record"
)

func fleet() []record.Vehicle {
	return []record.Vehicle{
		{ID: 1, Registration: "ONE", Latitude: 34.5, Longitude: -102.1, RecordedTimeUTC: 1700000000},
		{ID: 2, Registration: "TWO", Latitude: 32.3, Longitude: -99.1, RecordedTimeUTC: 1700000060},
		{ID: 3, Registration: "THREE", Latitude: 33.2, Longitude: -100.2, RecordedTimeUTC: 1700000120},
	}
}

// Example loads a dataset from a blob store and finds the nearest vehicle
// for two positions.
func Example() {
	ctx := context.Background()

	data, err := record.Encode(fleet())
	if err != nil {
		log.Fatal(err)
	}

	store := blobstore.NewMemoryStore()
	if err := store.Put(ctx, vehpos.DefaultFileName, data); err != nil {
		log.Fatal(err)
	}

	ds, err := vehpos.Load(ctx, store, vehpos.DefaultFileName)
	if err != nil {
		log.Fatal(err)
	}

	results, err := ds.NearestAll(ctx, []finder.Query{
		{ID: 1, Latitude: 34.544909, Longitude: -102.100843},
		{ID: 2, Latitude: 32.345544, Longitude: -99.123124},
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Printf("Pos %d: {ID: %d, Registration: %s}\n", r.Query.ID, r.VehicleID, r.Registration)
	}
	// Output:
	// Pos 1: {ID: 1, Registration: ONE}
	// Pos 2: {ID: 2, Registration: TWO}
}

// Example_compressed loads a zstd-compressed dataset; the compression is
// inferred from the ".zst" suffix.
func Example_compressed() {
	ctx := context.Background()

	data, _ := record.Encode(fleet())
	packed, _ := compress.Compress(data, compress.ZSTD)

	store := blobstore.NewMemoryStore()
	_ = store.Put(ctx, "positions.dat.zst", packed)

	ds, err := vehpos.Load(ctx, store, "positions.dat.zst")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(ds.Len(), ds.Stats().Compression)
	// Output: 3 zstd
}

// Example_metrics collects basic search metrics.
func Example_metrics() {
	ctx := context.Background()
	metrics := &vehpos.BasicMetricsCollector{}

	ds := vehpos.FromVehicles(fleet(), vehpos.WithMetricsCollector(metrics), vehpos.WithExhaustive(true))
	_, _ = ds.Nearest(ctx, finder.Query{ID: 1, Latitude: 33, Longitude: -100})

	stats := metrics.GetStats()
	fmt.Println(stats.SearchCount, stats.SearchAvgEvaluated)
	// Output: 1 3
}
