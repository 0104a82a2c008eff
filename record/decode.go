package record

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Decode parses buf into vehicles in file order.
//
// If buf ends inside a record, Decode returns every complete record before it
// together with a *TruncatedRecordError. The dangling bytes are dropped.
// Registration strings are copied, so the result never aliases buf.
func Decode(buf []byte) ([]Vehicle, error) {
	vehicles := make([]Vehicle, 0, Count(buf))

	off := 0
	for off < len(buf) {
		v, next, field := decodeAt(buf, off)
		if field != "" {
			return vehicles, &TruncatedRecordError{Offset: off, Field: field, Decoded: len(vehicles)}
		}
		vehicles = append(vehicles, v)
		off = next
	}

	return vehicles, nil
}

// Count returns the number of complete records in buf without materializing them.
func Count(buf []byte) int {
	n := 0
	off := 0
	for off < len(buf) {
		next, ok := skipAt(buf, off)
		if !ok {
			break
		}
		off = next
		n++
	}
	return n
}

// decodeAt decodes the record starting at off. On truncation it returns the
// name of the missing field.
func decodeAt(buf []byte, off int) (Vehicle, int, string) {
	if len(buf)-off < idSize {
		return Vehicle{}, off, "id"
	}
	id := int32(binary.LittleEndian.Uint32(buf[off:]))
	off += idSize

	end := bytes.IndexByte(buf[off:], 0)
	if end < 0 {
		return Vehicle{}, off, "registration"
	}
	reg := string(buf[off : off+end])
	off += end + 1

	if len(buf)-off < tailSize {
		return Vehicle{}, off, "position"
	}

	v := Vehicle{
		ID:              id,
		Registration:    reg,
		Latitude:        math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])),
		Longitude:       math.Float32frombits(binary.LittleEndian.Uint32(buf[off+4:])),
		RecordedTimeUTC: binary.LittleEndian.Uint64(buf[off+8:]),
	}

	return v, off + tailSize, ""
}

// skipAt is decodeAt without copying any bytes.
func skipAt(buf []byte, off int) (int, bool) {
	if len(buf)-off < idSize {
		return off, false
	}
	off += idSize

	end := bytes.IndexByte(buf[off:], 0)
	if end < 0 {
		return off, false
	}
	off += end + 1

	if len(buf)-off < tailSize {
		return off, false
	}
	return off + tailSize, true
}
