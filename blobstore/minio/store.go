package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/vehpos/blobstore"
	"github.com/hupe1980/vehpos/resource"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options configures New.
type Options struct {
	AccessKey string
	SecretKey string
	// Secure enables HTTPS.
	Secure bool
	Region string
	// Prefix is prepended to every blob name.
	Prefix string
}

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// New connects to endpoint with static credentials.
func New(endpoint, bucket string, optFns ...func(*Options)) (*Store, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	return NewStore(client, bucket, opts.Prefix), nil
}

// NewStore creates a Store on an existing client.
// rootPrefix is prepended to all keys (e.g. "positions/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open stats the object to verify it exists and learn its size.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err)
	}

	return &minioBlob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

// Put uploads data as a single object.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

func mapError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return blobstore.ErrNotFound
	}
	return err
}

// minioBlob implements blobstore.Blob and blobstore.Fetcher.
type minioBlob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *minioBlob) Size() int64 {
	return b.size
}

func (b *minioBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= b.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := min(off+int64(len(p)), b.size) - 1

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, end); err != nil {
		return 0, err
	}

	obj, err := b.client.GetObject(ctx, b.bucket, b.key, opts)
	if err != nil {
		return 0, mapError(err)
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:end-off+1])
	if err != nil {
		return n, mapError(err)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Fetch streams the whole object into p with a single GET, throttled by rc.
func (b *minioBlob) Fetch(ctx context.Context, p []byte, rc *resource.Controller) error {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, minio.GetObjectOptions{})
	if err != nil {
		return mapError(err)
	}
	defer obj.Close()

	if err := fill(ctx, obj, p, rc); err != nil {
		return fmt.Errorf("minio: fetch %s: %w", b.key, err)
	}
	return nil
}

// fill reads exactly len(p) bytes from r, charging them against rc.
func fill(ctx context.Context, r io.Reader, p []byte, rc *resource.Controller) error {
	_, err := io.ReadFull(resource.NewRateLimitedReader(ctx, r, rc), p)
	return mapError(err)
}

func (b *minioBlob) Close() error {
	return nil
}
