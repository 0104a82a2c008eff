package record

import "fmt"

const (
	idSize   = 4
	tailSize = 4 + 4 + 8 // latitude, longitude, recorded time
)

// Vehicle is a single decoded position report.
type Vehicle struct {
	ID              int32   `json:"id"`
	Registration    string  `json:"registration"`
	Latitude        float32 `json:"latitude"`
	Longitude       float32 `json:"longitude"`
	RecordedTimeUTC uint64  `json:"recorded_time_utc"`
}

// EncodedSize returns the number of bytes v occupies on disk.
func (v Vehicle) EncodedSize() int {
	return idSize + len(v.Registration) + 1 + tailSize
}

// String returns a compact representation of the vehicle.
func (v Vehicle) String() string {
	return fmt.Sprintf("Vehicle(%d %q @ %.6f,%.6f)", v.ID, v.Registration, v.Latitude, v.Longitude)
}
