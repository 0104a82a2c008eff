package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/vehpos/internal/mmap"
	"github.com/hupe1980/vehpos/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 31)
	}
	return b
}

type failingAdviser struct{ err error }

func (f failingAdviser) Advise(mmap.AccessPattern) error { return f.err }

func TestAdviseSequential(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	adviseSequential(failingAdviser{}, logger, "ok.dat")
	assert.Empty(t, buf.String())

	adviseSequential(failingAdviser{err: errors.New("not supported")}, logger, "VehiclePositions.dat")
	assert.Contains(t, buf.String(), `level=DEBUG msg="madvise failed" name=VehiclePositions.dat error="not supported"`)

	// A nil-logger store still opens files.
	store := NewLocalStore(t.TempDir(), WithLogger(nil))
	require.NoError(t, store.Put(context.Background(), "a", []byte("x")))
	blob, err := store.Open(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, blob.Close())
}

func TestLocalStore_PutOpen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	data := payload(1000)
	require.NoError(t, store.Put(ctx, "nested/VehiclePositions.dat", data))

	entries, err := os.ReadDir(filepath.Join(root, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")

	blob, err := store.Open(ctx, "nested/VehiclePositions.dat")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, data[100:110], buf)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	mapped, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, mapped)
}

func TestLocalStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "a.dat", []byte("first")))
	require.NoError(t, store.Put(ctx, "a.dat", []byte("second")))

	blob, err := store.Open(ctx, "a.dat")
	require.NoError(t, err)
	defer blob.Close()

	c, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "second", string(c.Data))
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()

	for name, store := range map[string]BlobStore{
		"Local":  NewLocalStore(t.TempDir()),
		"Memory": NewMemoryStore(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Open(ctx, "missing.dat")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("hello vehicles")
	require.NoError(t, store.Put(ctx, "b", data))
	require.NoError(t, store.Put(ctx, "a", nil))
	data[0] = 'J'

	assert.Equal(t, []string{"a", "b"}, store.Names())

	blob, err := store.Open(ctx, "b")
	require.NoError(t, err)

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	n, err = blob.ReadAt(ctx, make([]byte, 20), 6)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 8, n)

	// Snapshot semantics.
	require.NoError(t, store.Put(ctx, "b", []byte("changed")))
	assert.Equal(t, int64(len("hello vehicles")), blob.Size())
	require.NoError(t, blob.Close())
}

// rangedBlob hides the Mappable/Fetcher fast paths of a memory blob.
type rangedBlob struct {
	Blob
	reads int
}

func (b *rangedBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.reads++
	return b.Blob.ReadAt(ctx, p, off)
}

type shortBlob struct {
	memoryBlob
}

func (b *shortBlob) Size() int64 { return int64(len(b.data)) + 10 }

type fetchBlob struct {
	memoryBlob
	fetched bool
	rc      *resource.Controller
}

func (b *fetchBlob) Fetch(_ context.Context, p []byte, rc *resource.Controller) error {
	b.fetched, b.rc = true, rc
	copy(p, b.data)
	return nil
}

func TestReadAll(t *testing.T) {
	ctx := context.Background()
	data := payload(10_000)

	t.Run("Mapped", func(t *testing.T) {
		store := NewLocalStore(t.TempDir())
		require.NoError(t, store.Put(ctx, "d", data))
		blob, err := store.Open(ctx, "d")
		require.NoError(t, err)
		defer blob.Close()

		c, err := ReadAll(ctx, blob)
		require.NoError(t, err)
		defer c.Release()
		assert.True(t, c.Mapped)
		assert.Equal(t, data, c.Data)
	})

	t.Run("Chunked", func(t *testing.T) {
		blob := &rangedBlob{Blob: &memoryBlob{data: data}}

		// A single worker keeps the read counter race-free.
		c, err := ReadAll(ctx, blob, func(o *ReadOptions) {
			o.ChunkSize = 999
			o.Concurrency = 1
		})
		require.NoError(t, err)
		assert.False(t, c.Mapped)
		assert.Equal(t, data, c.Data)
		assert.Equal(t, 11, blob.reads)
	})

	t.Run("ChunkedParallel", func(t *testing.T) {
		c, err := ReadAll(ctx, &rangedBlob{Blob: &memoryBlob{data: data}}, func(o *ReadOptions) {
			o.ChunkSize = 128
			o.Concurrency = 8
		})
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, c.Data))
	})

	t.Run("Fetch", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
		blob := &fetchBlob{memoryBlob: memoryBlob{data: data}}
		c, err := ReadAll(ctx, blob, func(o *ReadOptions) { o.Controller = ctrl })
		require.NoError(t, err)
		assert.True(t, blob.fetched)
		assert.Same(t, ctrl, blob.rc, "controller reaches the fetcher")
		assert.Equal(t, data, c.Data)
	})

	t.Run("Empty", func(t *testing.T) {
		c, err := ReadAll(ctx, &rangedBlob{Blob: &memoryBlob{}})
		require.NoError(t, err)
		assert.NotNil(t, c.Data)
		assert.Empty(t, c.Data)
	})

	t.Run("Short", func(t *testing.T) {
		_, err := ReadAll(ctx, &shortBlob{memoryBlob{data: data}})
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ReadAll(canceled, &rangedBlob{Blob: &memoryBlob{data: data}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadAll_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 1000})
	withCtrl := func(o *ReadOptions) { o.Controller = ctrl }

	_, err := ReadAll(ctx, &memoryBlob{data: payload(1001)}, withCtrl)
	assert.ErrorIs(t, err, resource.ErrMemoryLimit)
	assert.Zero(t, ctrl.MemoryUsage())

	c, err := ReadAll(ctx, &memoryBlob{data: payload(600)}, withCtrl)
	require.NoError(t, err)
	assert.Equal(t, int64(600), ctrl.MemoryUsage())

	_, err = ReadAll(ctx, &memoryBlob{data: payload(600)}, withCtrl)
	assert.ErrorIs(t, err, resource.ErrMemoryLimit)

	c.Release()
	c.Release()
	assert.Zero(t, ctrl.MemoryUsage())

	// Failed reads give their reservation back.
	_, err = ReadAll(ctx, &shortBlob{memoryBlob{data: payload(100)}}, withCtrl)
	require.Error(t, err)
	assert.Zero(t, ctrl.MemoryUsage())
}
