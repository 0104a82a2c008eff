package distance

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by all metrics.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180.0

// Haversine calculates the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + sinLon*sinLon*math.Cos(phi1)*math.Cos(phi2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Meridian returns the arc length in kilometers spanned by the latitude
// difference alone. It never exceeds Haversine for the same points.
func Meridian(lat1, _, lat2, _ float64) float64 {
	return math.Abs(lat2-lat1) * degToRad * EarthRadiusKm
}

// Metric represents the distance metric used for coordinate comparison.
type Metric int

const (
	MetricHaversine Metric = iota
	MetricMeridian
)

func (m Metric) String() string {
	switch m {
	case MetricHaversine:
		return "Haversine"
	case MetricMeridian:
		return "Meridian"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation between two coordinates.
type Func func(lat1, lon1, lat2, lon2 float64) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricHaversine:
		return Haversine, nil
	case MetricMeridian:
		return Meridian, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
