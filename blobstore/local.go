package blobstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/vehpos/internal/mmap"
)

// LocalOptions configures a LocalStore.
type LocalOptions struct {
	// Logger receives debug messages; nil discards them.
	Logger *slog.Logger
}

// WithLogger sets the logger of a LocalStore.
func WithLogger(l *slog.Logger) func(*LocalOptions) {
	return func(o *LocalOptions) {
		o.Logger = l
	}
}

// LocalStore implements BlobStore using the local file system.
type LocalStore struct {
	root   string
	logger *slog.Logger
}

// NewLocalStore creates a LocalStore rooted at the given directory. Names are
// resolved relative to root; an empty root means the working directory.
func NewLocalStore(root string, optFns ...func(*LocalOptions)) *LocalStore {
	var opts LocalOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &LocalStore{root: root, logger: opts.Logger}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open maps the named file read-only.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	adviseSequential(m, s.logger, name)
	return &localBlob{m: m}, nil
}

type adviser interface {
	Advise(pattern mmap.AccessPattern) error
}

// adviseSequential hints that decoding reads the mapping in one forward pass.
// The hint is optional; a failure only costs read-ahead and is logged.
func adviseSequential(m adviser, logger *slog.Logger, name string) {
	if err := m.Advise(mmap.AccessSequential); err != nil {
		logger.Debug("madvise failed", "name", name, "error", err)
	}
}

// Put writes data to a temporary file next to the target and renames it into
// place, so readers never observe a partial dataset.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) error {
	path := s.path(name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return b.m.Size()
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Bytes(), nil
}
