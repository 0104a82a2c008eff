// Package finder locates the nearest recorded vehicle to a query coordinate.
//
// A Finder owns a slice of vehicles sorted by latitude. Each query binary
// searches on latitude, evaluating the great-circle distance at every visited
// record, then widens linearly left and right from the best record found
// while the latitude gap stays under the current best distance.
//
// # Pruning
//
// The default bound, PruneDegrees, compares the latitude gap in degrees with
// the best distance in kilometers. The units do not match: since one degree of
// latitude spans about 111 km the bound is far looser than necessary: the scan
// window is wider than a unit-consistent bound would allow and the walk
// evaluates more records, but it never stops before the true nearest vehicle.
// PruneKilometers converts the gap to meridian arc length, a lower bound of
// great-circle distance, and stops as early as the sort order permits.
//
// Exhaustive mode skips the windowed search and evaluates every record.
//
// # Usage
//
//	f := finder.New(vehicles)
//	res := f.Nearest(finder.Query{ID: 1, Latitude: 34.54, Longitude: -102.10})
//	if res.Found {
//	    fmt.Println(res.VehicleID, res.Registration)
//	}
package finder
