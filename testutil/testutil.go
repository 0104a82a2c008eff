package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/vehpos/distance"
	"github.com/hupe1980/vehpos/record"
)

// Bounds is a latitude/longitude box in decimal degrees.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// ContinentalUS roughly covers the lower 48 states.
var ContinentalUS = Bounds{MinLat: 24.5, MaxLat: 49.5, MinLon: -125, MaxLon: -66.5}

// Point is a bare coordinate.
type Point struct {
	Latitude  float64
	Longitude float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

const registrationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registration returns a random plate of 6 to 10 alphanumerics.
func (r *RNG) Registration() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registrationLocked()
}

func (r *RNG) registrationLocked() string {
	b := make([]byte, 6+r.rand.Intn(5))
	for i := range b {
		b[i] = registrationAlphabet[r.rand.Intn(len(registrationAlphabet))]
	}
	return string(b)
}

// Vehicles generates num vehicles with sequential IDs starting at 1, uniformly
// placed inside b, with increasing recorded times.
func (r *RNG) Vehicles(num int, b Bounds) []record.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicles := make([]record.Vehicle, num)
	ts := uint64(1_700_000_000)
	for i := range num {
		ts += uint64(r.rand.Intn(60))
		vehicles[i] = record.Vehicle{
			ID:              int32(i + 1),
			Registration:    r.registrationLocked(),
			Latitude:        float32(b.MinLat + r.rand.Float64()*(b.MaxLat-b.MinLat)),
			Longitude:       float32(b.MinLon + r.rand.Float64()*(b.MaxLon-b.MinLon)),
			RecordedTimeUTC: ts,
		}
	}

	return vehicles
}

// Points generates num coordinates uniformly inside b.
func (r *RNG) Points(num int, b Bounds) []Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]Point, num)
	for i := range num {
		points[i] = Point{
			Latitude:  b.MinLat + r.rand.Float64()*(b.MaxLat-b.MinLat),
			Longitude: b.MinLon + r.rand.Float64()*(b.MaxLon-b.MinLon),
		}
	}
	return points
}

// BruteForceNearest returns the index of the vehicle closest to (lat, lon) and
// its distance in km, or -1 if vehicles is empty. Ties keep the lowest index.
func BruteForceNearest(vehicles []record.Vehicle, lat, lon float64) (int, float64) {
	best, bestDist := -1, math.MaxFloat64
	for i := range vehicles {
		d := distance.Haversine(lat, lon, float64(vehicles[i].Latitude), float64(vehicles[i].Longitude))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
