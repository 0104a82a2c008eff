package finder

// Query is a coordinate to find the nearest vehicle for.
type Query struct {
	ID        int     `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Result is the answer for a single Query.
//
// Found is false when the finder holds no vehicles; all other fields except
// Query are zero in that case.
type Result struct {
	Query        Query   `json:"query"`
	Found        bool    `json:"found"`
	VehicleID    int32   `json:"vehicle_id,omitempty"`
	Registration string  `json:"registration,omitempty"`
	DistanceKm   float64 `json:"distance_km,omitempty"`

	// Evaluated is the number of distance computations the query needed.
	Evaluated int `json:"evaluated"`
}
