package blobstore

import (
	"context"
	"io"
	"os"

	"github.com/hupe1980/vehpos/resource"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
var ErrNotFound = os.ErrNotExist

// BlobStore reads and writes immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a whole blob, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes at off. It follows io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs backed by a memory mapping.
type Mappable interface {
	// Bytes returns the mapped contents. The slice is valid until the Blob is
	// closed.
	Bytes() ([]byte, error)
}

// Fetcher is an optional interface for Blobs that can transfer their whole
// content more efficiently than ranged reads.
type Fetcher interface {
	// Fetch fills p, which has length Size(), with the blob content. The
	// transfer is throttled by rc's IO limit; rc may be nil.
	Fetch(ctx context.Context, p []byte, rc *resource.Controller) error
}
