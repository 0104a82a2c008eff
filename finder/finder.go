package finder

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/hupe1980/vehpos/distance"
	"github.com/hupe1980/vehpos/record"
	"golang.org/x/sync/errgroup"
)

// Finder answers nearest-vehicle queries over a latitude-sorted record set.
// It is safe for concurrent use once constructed.
type Finder struct {
	vehicles []record.Vehicle
	opts     Options

	// dist ranks candidates. bound, if set, is the lower bound that ends a
	// walk; nil selects the degree comparison.
	dist  distance.Func
	bound distance.Func
}

// New takes ownership of vehicles, sorts them ascending by latitude in place
// and returns a Finder over them. The original order is not preserved.
func New(vehicles []record.Vehicle, optFns ...func(o *Options)) *Finder {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	slices.SortFunc(vehicles, func(a, b record.Vehicle) int {
		return cmp.Compare(a.Latitude, b.Latitude)
	})

	// Both metrics are built in, so Provider cannot fail here.
	dist, _ := distance.Provider(distance.MetricHaversine)
	f := &Finder{
		vehicles: vehicles,
		opts:     opts,
		dist:     dist,
	}
	if opts.Pruning == PruneKilometers {
		f.bound, _ = distance.Provider(distance.MetricMeridian)
	}
	return f
}

// Len returns the number of vehicles.
func (f *Finder) Len() int { return len(f.vehicles) }

// Vehicles returns the vehicles in latitude order. Callers must not modify it.
func (f *Finder) Vehicles() []record.Vehicle { return f.vehicles }

// Nearest returns the vehicle closest to q.
func (f *Finder) Nearest(q Query) Result {
	var s scan
	if f.opts.Exhaustive {
		s = f.exhaustive(q)
	} else {
		s = f.search(q)
	}

	res := Result{Query: q, Evaluated: s.evaluated}
	if s.index < 0 {
		return res
	}

	v := &f.vehicles[s.index]
	res.Found = true
	res.VehicleID = v.ID
	res.Registration = v.Registration
	res.DistanceKm = s.distance
	return res
}

// NearestAll returns one Result per query, in query order.
//
// With Options.Parallelism > 1 queries are evaluated concurrently.
// The context is checked before each query.
func (f *Finder) NearestAll(ctx context.Context, queries []Query) ([]Result, error) {
	results := make([]Result, len(queries))

	if f.opts.Parallelism <= 1 {
		for i, q := range queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = f.Nearest(q)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Parallelism)

	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = f.Nearest(q)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scan is the running state of a single query.
type scan struct {
	index     int
	distance  float64
	evaluated int
}

func (s *scan) visit(f *Finder, q Query, i int) {
	v := &f.vehicles[i]
	d := f.dist(q.Latitude, q.Longitude, float64(v.Latitude), float64(v.Longitude))
	s.evaluated++
	// Strict: the first record found at a given distance wins.
	if d < s.distance {
		s.distance = d
		s.index = i
	}
}

// search is the binary-search-seeded windowed scan.
func (f *Finder) search(q Query) scan {
	s := scan{index: -1, distance: math.MaxFloat64}
	vs := f.vehicles

	left, right := 0, len(vs)-1
	for left <= right {
		mid := left + (right-left)/2
		s.visit(f, q, mid)
		if float64(vs[mid].Latitude) < q.Latitude {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}

	if s.index < 0 {
		return s
	}

	for j := s.index - 1; j >= 0 && f.inWindow(q, j, s.distance); j-- {
		s.visit(f, q, j)
	}
	// Starts from the best index after the left walk, not the seed.
	for j := s.index + 1; j < len(vs) && f.inWindow(q, j, s.distance); j++ {
		s.visit(f, q, j)
	}

	return s
}

func (f *Finder) inWindow(q Query, i int, best float64) bool {
	lat := float64(f.vehicles[i].Latitude)
	if f.bound != nil {
		return f.bound(lat, 0, q.Latitude, 0) <= best
	}
	return math.Abs(lat-q.Latitude) < best
}

func (f *Finder) exhaustive(q Query) scan {
	s := scan{index: -1, distance: math.MaxFloat64}
	for i := range f.vehicles {
		s.visit(f, q, i)
	}
	return s
}
