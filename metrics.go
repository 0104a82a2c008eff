package vehpos

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see package
// prommetrics for a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after a dataset blob was read and decompressed.
	// bytes is the stored (possibly compressed) size.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordDecode is called after the record decoder ran. truncated reports
	// that the input ended inside a record.
	RecordDecode(records int, truncated bool, duration time.Duration)

	// RecordSearch is called after each single query. evaluated is the number
	// of distance computations.
	RecordSearch(evaluated int, found bool, duration time.Duration)

	// RecordBatchSearch is called after each NearestAll call.
	RecordBatchSearch(queries, evaluated int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)           {}
func (NoopMetricsCollector) RecordDecode(int, bool, time.Duration)            {}
func (NoopMetricsCollector) RecordSearch(int, bool, time.Duration)            {}
func (NoopMetricsCollector) RecordBatchSearch(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	LoadBytes        atomic.Int64
	LoadTotalNanos   atomic.Int64
	DecodeCount      atomic.Int64
	DecodedRecords   atomic.Int64
	TruncatedLoads   atomic.Int64
	SearchCount      atomic.Int64
	SearchMisses     atomic.Int64
	SearchEvaluated  atomic.Int64
	SearchTotalNanos atomic.Int64
	BatchCount       atomic.Int64
	BatchErrors      atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(records int, truncated bool, _ time.Duration) {
	b.DecodeCount.Add(1)
	b.DecodedRecords.Add(int64(records))
	if truncated {
		b.TruncatedLoads.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(evaluated int, found bool, duration time.Duration) {
	b.SearchCount.Add(1)
	b.SearchEvaluated.Add(int64(evaluated))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.SearchMisses.Add(1)
	}
}

// RecordBatchSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchSearch(queries, evaluated int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	if err != nil {
		b.BatchErrors.Add(1)
		return
	}
	b.SearchCount.Add(int64(queries))
	b.SearchEvaluated.Add(int64(evaluated))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	searches := b.SearchCount.Load()
	s := BasicMetricsStats{
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadBytes:      b.LoadBytes.Load(),
		DecodedRecords: b.DecodedRecords.Load(),
		TruncatedLoads: b.TruncatedLoads.Load(),
		SearchCount:    searches,
		SearchMisses:   b.SearchMisses.Load(),
		BatchCount:     b.BatchCount.Load(),
		BatchErrors:    b.BatchErrors.Load(),
	}
	if searches > 0 {
		s.SearchAvgNanos = b.SearchTotalNanos.Load() / searches
		s.SearchAvgEvaluated = float64(b.SearchEvaluated.Load()) / float64(searches)
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount          int64
	LoadErrors         int64
	LoadBytes          int64
	DecodedRecords     int64
	TruncatedLoads     int64
	SearchCount        int64
	SearchMisses       int64
	SearchAvgNanos     int64
	SearchAvgEvaluated float64
	BatchCount         int64
	BatchErrors        int64
}
