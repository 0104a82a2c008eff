// Package mmap maps vehicle position files read-only into memory.
//
// The record decoder walks the mapped bytes directly and copies out every
// registration string, so a Mapping can be closed as soon as decoding is done.
//
// # Usage
//
//	m, err := mmap.Open("VehiclePositions.dat")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	vehicles, err := record.Decode(m.Bytes())
//
// # Platform Support
//
//   - Unix: mmap(2), with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile; Advise is a no-op
//
// Close is idempotent. Slices returned by Bytes must not be used after Close.
package mmap
