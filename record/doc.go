// Package record decodes and encodes the vehicle position file format.
//
// The file is a headerless sequence of variable-length records. Each record is
//
//	int32   vehicle id         (little-endian)
//	[]byte  registration       (ASCII, terminated by a single NUL byte)
//	float32 latitude           (little-endian IEEE-754)
//	float32 longitude          (little-endian IEEE-754)
//	uint64  recorded time UTC  (little-endian, opaque unit)
//
// There is no length field and no record count: record boundaries are only
// recoverable by scanning for the registration terminator, so decoding is a
// single forward pass. End of input is the only terminator.
//
// # Usage
//
//	vehicles, err := record.Decode(buf)
//	if errors.Is(err, record.ErrTruncatedRecord) {
//	    // vehicles holds every complete record before the cut
//	}
package record
