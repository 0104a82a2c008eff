// Package distance provides great-circle distance calculations on a spherical Earth.
//
// All functions take coordinates in decimal degrees and return kilometers.
// Inputs are not validated or clamped to the [-90,90] / [-180,180] ranges.
//
// # Supported Metrics
//
//   - MetricHaversine: great-circle distance (default)
//   - MetricMeridian: north/south arc length only, a lower bound of MetricHaversine
//
// # Usage
//
//	km := distance.Haversine(34.5, -102.1, 32.3, -99.1)
//	fn, _ := distance.Provider(distance.MetricHaversine)
package distance
