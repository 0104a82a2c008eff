package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/vehpos/internal/conv"
	"github.com/hupe1980/vehpos/resource"
	"golang.org/x/sync/errgroup"
)

// ReadOptions configures ReadAll.
type ReadOptions struct {
	// ChunkSize is the size of each ranged read. Default: 8 MiB.
	ChunkSize int64
	// Concurrency is the number of ranged reads in flight. Default: 4.
	Concurrency int
	// Controller, if set, reserves memory for the buffer and throttles reads.
	Controller *resource.Controller
}

// DefaultReadOptions contains the default ReadAll settings.
var DefaultReadOptions = ReadOptions{
	ChunkSize:   8 << 20,
	Concurrency: 4,
}

// Contents is a fully loaded blob.
type Contents struct {
	// Data is the blob content. For mapped blobs it aliases the mapping and is
	// valid only until the Blob is closed.
	Data []byte
	// Mapped reports whether Data aliases a memory mapping.
	Mapped bool

	release func()
	once    sync.Once
}

// Release returns the memory reservation held for Data. It is idempotent.
func (c *Contents) Release() {
	if c == nil || c.release == nil {
		return
	}
	c.once.Do(c.release)
}

// ReadAll loads the whole blob into memory. If a Controller is configured the
// blob size is reserved up front; a blob larger than the remaining budget
// fails with resource.ErrMemoryLimit before any byte is read.
func ReadAll(ctx context.Context, blob Blob, optFns ...func(*ReadOptions)) (*Contents, error) {
	opts := DefaultReadOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultReadOptions.ChunkSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	size := blob.Size()
	n, err := conv.Int64ToInt(size)
	if err != nil {
		return nil, fmt.Errorf("blobstore: invalid blob size: %w", err)
	}

	ctrl := opts.Controller
	if err := ctrl.ReserveMemory(size); err != nil {
		return nil, err
	}
	c := &Contents{release: func() { ctrl.ReleaseMemory(size) }}

	if m, ok := blob.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			c.Release()
			return nil, err
		}
		c.Data, c.Mapped = data, true
		return c, nil
	}

	if size == 0 {
		c.Data = []byte{}
		return c, nil
	}

	buf := make([]byte, n)

	if f, ok := blob.(Fetcher); ok {
		err = f.Fetch(ctx, buf, ctrl)
	} else {
		err = readChunks(ctx, blob, buf, opts)
	}
	if err != nil {
		c.Release()
		return nil, err
	}

	c.Data = buf
	return c, nil
}

func readChunks(ctx context.Context, blob Blob, buf []byte, opts ReadOptions) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	size := int64(len(buf))
	for off := int64(0); off < size; off += opts.ChunkSize {
		end := min(off+opts.ChunkSize, size)
		chunk := buf[off:end]

		g.Go(func() error {
			if err := opts.Controller.AcquireIO(ctx, len(chunk)); err != nil {
				return err
			}
			n, err := blob.ReadAt(ctx, chunk, off)
			if err == nil || errors.Is(err, io.EOF) {
				if n == len(chunk) {
					return nil
				}
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("blobstore: read [%d,%d): %w", off, end, err)
		})
	}

	return g.Wait()
}
