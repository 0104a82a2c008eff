// Package vehpos finds the nearest recorded vehicle to a set of coordinates.
//
// A Dataset is loaded once from a flat binary file of vehicle position
// records, held in a blobstore (local disk, memory, S3 or MinIO), optionally
// compressed with zstd or lz4. Loading decodes every record, sorts the
// records by latitude and prepares them for nearest-neighbor queries by
// great-circle distance.
//
// # Quick Start
//
//	ctx := context.Background()
//	ds, err := vehpos.LoadFile(ctx, "VehiclePositions.dat")
//	if err != nil { ... }
//
//	res, _ := ds.Nearest(ctx, finder.Query{ID: 1, Latitude: 34.544909, Longitude: -102.100843})
//	if res.Found {
//	    fmt.Println(res.VehicleID, res.Registration)
//	}
//
// Remote datasets:
//
//	store, _ := s3.New(ctx, "fleet-telemetry", s3.WithPrefix("positions/"))
//	ds, err := vehpos.Load(ctx, store, "VehiclePositions.dat.zst",
//	    vehpos.WithParallelism(8),
//	    vehpos.WithResourceController(resource.NewController(resource.Config{
//	        MemoryLimitBytes: 1 << 30,
//	    })),
//	)
//
// # Record Format
//
// The file is a concatenation of records without header or count:
//
//	int32   id (little-endian)
//	[]byte  registration, ASCII, NUL-terminated
//	float32 latitude (little-endian)
//	float32 longitude (little-endian)
//	uint64  recorded time (little-endian)
//
// A file that ends in the middle of a record still loads; the complete
// records are kept and Dataset.Truncated reports where decoding stopped.
// WithStrictDecode turns that condition into a load error.
//
// # Search Modes
//
// The default search binary searches on latitude and widens the window while
// the latitude gap, in degrees, is below the best distance found, in
// kilometers. WithPruning(finder.PruneKilometers) compares like with like and
// evaluates fewer records. WithExhaustive scans every record.
//
// # Observability
//
// Operations are logged through Logger (log/slog) and reported to a
// MetricsCollector; prommetrics provides a Prometheus implementation.
package vehpos
