package vehpos

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDataset is returned when a Dataset is queried before it was loaded.
	ErrNoDataset = errors.New("vehpos: no dataset loaded")
)

// LoadError describes a failed dataset load.
//
// The underlying error can be accessed via errors.Unwrap.
type LoadError struct {
	// Source is the blob name that was being loaded.
	Source string
	// Stage is "open", "read", "decompress" or "decode".
	Stage string
	cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("vehpos: %s %s: %v", e.Stage, e.Source, e.cause)
}

func (e *LoadError) Unwrap() error { return e.cause }
