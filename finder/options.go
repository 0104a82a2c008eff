package finder

import "fmt"

// Pruning selects the bound that stops the linear widening scan.
type Pruning int

const (
	// PruneDegrees stops when |Δlatitude| in degrees reaches the best distance in km.
	PruneDegrees Pruning = iota
	// PruneKilometers stops when the meridian arc of |Δlatitude| exceeds the best distance.
	PruneKilometers
)

func (p Pruning) String() string {
	switch p {
	case PruneDegrees:
		return "degrees"
	case PruneKilometers:
		return "kilometers"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// ParsePruning parses the String form of a Pruning.
func ParsePruning(s string) (Pruning, error) {
	switch s {
	case "degrees", "":
		return PruneDegrees, nil
	case "kilometers", "km":
		return PruneKilometers, nil
	default:
		return 0, fmt.Errorf("unknown pruning mode %q", s)
	}
}

// Options contains configuration options for the finder.
type Options struct {
	// Pruning selects the widening-scan bound.
	Pruning Pruning

	// Exhaustive evaluates every record for every query.
	Exhaustive bool

	// Parallelism is the number of queries NearestAll evaluates concurrently.
	// Values <= 1 evaluate queries sequentially.
	Parallelism int
}

// DefaultOptions contains the default configuration options for the finder.
var DefaultOptions = Options{
	Pruning:     PruneDegrees,
	Exhaustive:  false,
	Parallelism: 1,
}
