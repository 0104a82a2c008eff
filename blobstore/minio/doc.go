// Package minio stores vehicle position datasets on MinIO and other
// S3-compatible servers (Ceph, Garage, SeaweedFS) using the MinIO Go client.
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "fleet", func(o *minio.Options) {
//	    o.AccessKey, o.SecretKey = "minioadmin", "minioadmin"
//	    o.Prefix = "positions/"
//	})
//
// Or wrap an existing client:
//
//	store := minio.NewStore(client, "fleet", "positions/")
package minio
