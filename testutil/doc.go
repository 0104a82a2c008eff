// Package testutil provides testing utilities for vehpos.
//
// It is intended for tests, benchmarks and the synthetic data generator. It
// provides deterministic random vehicles and query points, and an exhaustive
// nearest-vehicle oracle to check finder results against.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	vehicles := rng.Vehicles(10000, testutil.ContinentalUS)
//	points := rng.Points(10, testutil.ContinentalUS)
//
// # Ground Truth
//
//	idx, km := testutil.BruteForceNearest(vehicles, lat, lon)
package testutil
