// Package s3 stores vehicle position datasets in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "fleet-telemetry",
//	    s3.WithPrefix("positions/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Reads go through the S3 transfer manager's Downloader, which fetches the
// object in parallel ranged parts; ranged ReadAt is available for partial
// reads. Put uses the Uploader and switches to multipart for large datasets.
package s3
