package s3

// Options configures a Store.
type Options struct {
	// Prefix is prepended to every blob name (e.g. "positions/").
	Prefix string
	// Region overrides the region from the shared AWS config. Only used by New.
	Region string
	// PartSize is the part size for downloads and multipart uploads.
	// Default: 8 MiB.
	PartSize int64
	// Concurrency is the number of parts transferred in parallel. Default: 5.
	Concurrency int
}

// DefaultOptions contains the default Store settings.
var DefaultOptions = Options{
	PartSize:    8 << 20,
	Concurrency: 5,
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) { o.Prefix = prefix }
}

// WithRegion sets the AWS region.
func WithRegion(region string) func(*Options) {
	return func(o *Options) { o.Region = region }
}

// WithPartSize sets the transfer part size.
func WithPartSize(size int64) func(*Options) {
	return func(o *Options) { o.PartSize = size }
}

// WithConcurrency sets the number of parallel part transfers.
func WithConcurrency(n int) func(*Options) {
	return func(o *Options) { o.Concurrency = n }
}
