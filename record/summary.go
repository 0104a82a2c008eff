package record

import "github.com/RoaringBitmap/roaring/v2"

// Summary holds informational statistics about a decoded file.
type Summary struct {
	Records         int
	DistinctIDs     uint64
	DuplicateIDs    int
	MinRecordedTime uint64
	MaxRecordedTime uint64
}

// Summarize computes a Summary over vehicles.
//
// IDs are tracked in a roaring bitmap keyed by their uint32 bit pattern, so
// negative IDs are counted like any other value.
func Summarize(vehicles []Vehicle) Summary {
	s := Summary{Records: len(vehicles)}
	if len(vehicles) == 0 {
		return s
	}

	ids := roaring.New()
	s.MinRecordedTime = vehicles[0].RecordedTimeUTC
	s.MaxRecordedTime = vehicles[0].RecordedTimeUTC

	for i := range vehicles {
		v := &vehicles[i]
		if !ids.CheckedAdd(uint32(v.ID)) {
			s.DuplicateIDs++
		}
		s.MinRecordedTime = min(s.MinRecordedTime, v.RecordedTimeUTC)
		s.MaxRecordedTime = max(s.MaxRecordedTime, v.RecordedTimeUTC)
	}

	s.DistinctIDs = ids.GetCardinality()
	return s
}
