// Package compress handles optionally compressed dataset files.
//
// A dataset named "*.zst" holds a zstd frame and "*.lz4" an lz4 frame; any
// other name is raw records. Both formats are streaming frames rather than
// raw blocks, so files produced by the zstd and lz4 command line tools load
// unchanged.
package compress
