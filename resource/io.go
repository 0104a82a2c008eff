package resource

import (
	"context"
	"io"
)

// RateLimitedReader throttles an io.Reader through a Controller's IO limit.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewRateLimitedReader wraps r. A nil controller leaves r unthrottled.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, r: r, rc: rc}
}

// Read waits for budget before reading, so a throttling error is never
// reported alongside data. A single call reads at most one burst.
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if b := r.rc.ioBurst(); b > 0 && len(p) > b {
		p = p[:b]
	}
	if err := r.rc.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// RateLimitedWriterAt throttles an io.WriterAt through a Controller's IO
// limit. It suits sinks filled by concurrent part downloads.
type RateLimitedWriterAt struct {
	ctx context.Context
	w   io.WriterAt
	rc  *Controller
}

// NewRateLimitedWriterAt wraps w. A nil controller leaves w unthrottled.
func NewRateLimitedWriterAt(ctx context.Context, w io.WriterAt, rc *Controller) *RateLimitedWriterAt {
	return &RateLimitedWriterAt{ctx: ctx, w: w, rc: rc}
}

// WriteAt waits for len(p) bytes of budget before writing.
func (w *RateLimitedWriterAt) WriteAt(p []byte, off int64) (int, error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.WriteAt(p, off)
}
