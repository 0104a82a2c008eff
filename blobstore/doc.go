// Package blobstore abstracts where vehicle position datasets live.
//
// A BlobStore opens named, immutable blobs and writes whole blobs with Put.
// ReadAll turns an opened Blob into one contiguous buffer for the record
// decoder, choosing the cheapest path the blob supports:
//
//   - Mappable blobs (LocalStore) hand out their memory mapping directly
//   - Fetcher blobs (s3.Store) download themselves in one managed transfer
//   - any other blob is read in parallel ranged chunks
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap on read, atomic rename on write
//   - MemoryStore: in-process map, used by tests and examples
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible servers
//
// Implementations must be safe for concurrent use.
package blobstore
