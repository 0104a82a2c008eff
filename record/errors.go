package record

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedRecord is returned when the input ends in the middle of a record.
	ErrTruncatedRecord = errors.New("truncated record")

	// ErrInvalidRegistration is returned when encoding a registration that contains a NUL byte.
	ErrInvalidRegistration = errors.New("registration must not contain NUL")
)

// TruncatedRecordError describes where decoding stopped.
//
// Records decoded before Offset are complete and are returned alongside this error.
type TruncatedRecordError struct {
	// Offset is the byte offset of the first byte of the dangling record.
	Offset int
	// Field names the part of the record that ran past the end of input.
	Field string
	// Decoded is the number of complete records before Offset.
	Decoded int
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("truncated record at offset %d (missing %s) after %d records", e.Offset, e.Field, e.Decoded)
}

func (e *TruncatedRecordError) Unwrap() error { return ErrTruncatedRecord }
