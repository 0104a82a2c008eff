package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a compression format.
type Type uint8

const (
	// None means the data is stored as is.
	None Type = iota
	// ZSTD is a zstd frame.
	ZSTD
	// LZ4 is an lz4 frame.
	LZ4
)

var (
	// ErrUnknownType is returned for an unsupported Type or name.
	ErrUnknownType = errors.New("compress: unknown type")

	// ErrTooLarge is returned when decompressed output exceeds the allowed size.
	ErrTooLarge = errors.New("compress: decompressed size exceeds limit")
)

// String returns the name of the compression type.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case ZSTD:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Ext returns the file suffix for t, including the dot.
func (t Type) Ext() string {
	switch t {
	case ZSTD:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// FromName infers the compression type from a blob name suffix.
func FromName(name string) Type {
	switch {
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		return ZSTD
	case strings.HasSuffix(name, ".lz4"):
		return LZ4
	default:
		return None
	}
}

// Parse maps a type name ("none", "zstd", "lz4") to a Type.
func Parse(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return ZSTD, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// Compress encodes data as a single frame of type t. None returns data as is.
func Compress(data []byte, t Type) ([]byte, error) {
	switch t {
	case None:
		return data, nil
	case ZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case LZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

// Decompress decodes a frame of type t. If maxSize is not negative, output
// larger than maxSize fails with ErrTooLarge without materializing more than
// maxSize+1 bytes. None returns data as is and ignores maxSize.
func Decompress(data []byte, t Type, maxSize int64) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch t {
	case None:
		return data, nil
	case ZSTD:
		out, err = decompressZstd(data, maxSize)
	case LZ4:
		out, err = decompressLZ4(data, maxSize)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if err != nil {
		return nil, err
	}
	if maxSize >= 0 && int64(len(out)) > maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxSize)
	}
	return out, nil
}

func decompressZstd(data []byte, maxSize int64) ([]byte, error) {
	if maxSize < 0 {
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("compress: zstd: %w", err)
		}
		return out, nil
	}

	// Limited decoders are not pooled; the limit is a constructor option.
	// The frame header carries the content size, so an oversized frame is
	// rejected before its output is allocated.
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(max(maxSize, 1))),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, fmt.Errorf("%w: more than %d bytes: %w", ErrTooLarge, maxSize, err)
	}
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: %w", err)
	}
	return out, nil
}

func decompressLZ4(data []byte, maxSize int64) ([]byte, error) {
	var r io.Reader = lz4.NewReader(bytes.NewReader(data))
	if maxSize >= 0 {
		// One byte past the limit is enough to detect the overflow.
		r = io.LimitReader(r, maxSize+1)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("compress: lz4: %w", err)
	}
	return buf.Bytes(), nil
}
