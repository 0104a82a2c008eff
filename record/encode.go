package record

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// AppendVehicle appends the encoded form of v to dst.
func AppendVehicle(dst []byte, v Vehicle) ([]byte, error) {
	if strings.IndexByte(v.Registration, 0) >= 0 {
		return dst, fmt.Errorf("%w: vehicle %d", ErrInvalidRegistration, v.ID)
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(v.ID))
	dst = append(dst, v.Registration...)
	dst = append(dst, 0)
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Latitude))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Longitude))
	dst = binary.LittleEndian.AppendUint64(dst, v.RecordedTimeUTC)

	return dst, nil
}

// Encode encodes vehicles into a new buffer in the order given.
func Encode(vehicles []Vehicle) ([]byte, error) {
	size := 0
	for i := range vehicles {
		size += vehicles[i].EncodedSize()
	}

	buf := make([]byte, 0, size)
	for i := range vehicles {
		var err error
		if buf, err = AppendVehicle(buf, vehicles[i]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
