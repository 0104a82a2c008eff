// Package conv provides checked integer conversions for sizes read from
// files and object stores.
//
// A blob reports its size as int64 while buffers and mappings are indexed
// with int. On 32-bit platforms a large object cannot be addressed; the
// conversion fails instead of truncating.
package conv
