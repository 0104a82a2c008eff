// Package prommetrics exports vehpos metrics through Prometheus collectors.
//
// Collectors register on their own registry so several datasets (or tests)
// can coexist in one process. A command-line run has no scrape endpoint;
// use WriteToTextfile to hand the final values to node_exporter's textfile
// collector.
package prommetrics

import (
	"time"

	"github.com/hupe1980/vehpos"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vehpos"

var _ vehpos.MetricsCollector = (*Collector)(nil)

// Collector implements vehpos.MetricsCollector.
type Collector struct {
	registry *prometheus.Registry

	opLatency       *prometheus.HistogramVec
	loadBytes       prometheus.Counter
	decodedRecords  prometheus.Counter
	truncatedLoads  prometheus.Counter
	searches        *prometheus.CounterVec
	searchEvaluated prometheus.Histogram
}

// New creates a Collector registered on a fresh registry. constLabels are
// attached to every series.
func New(constLabels prometheus.Labels) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "operation_latency_seconds",
			Help:        "Latency of dataset operations",
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
			ConstLabels: constLabels,
		}, []string{"op", "status"}),
		loadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "load_bytes_total",
			Help:        "Stored bytes read from dataset blobs",
			ConstLabels: constLabels,
		}),
		decodedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "decoded_records_total",
			Help:        "Vehicle records decoded",
			ConstLabels: constLabels,
		}),
		truncatedLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "truncated_loads_total",
			Help:        "Loads whose input ended inside a record",
			ConstLabels: constLabels,
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "searches_total",
			Help:        "Nearest-vehicle queries answered",
			ConstLabels: constLabels,
		}, []string{"result"}),
		searchEvaluated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "search_evaluated_records",
			Help:        "Distance computations per query",
			Buckets:     prometheus.ExponentialBuckets(1, 4, 12),
			ConstLabels: constLabels,
		}),
	}

	c.registry.MustRegister(
		c.opLatency,
		c.loadBytes,
		c.decodedRecords,
		c.truncatedLoads,
		c.searches,
		c.searchEvaluated,
	)
	return c
}

// Registry returns the registry the collector's metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteToTextfile writes all metrics in the text exposition format.
// The file is written atomically.
func (c *Collector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLoad implements vehpos.MetricsCollector.
func (c *Collector) RecordLoad(bytes int64, duration time.Duration, err error) {
	c.opLatency.WithLabelValues("load", status(err)).Observe(duration.Seconds())
	if err == nil {
		c.loadBytes.Add(float64(bytes))
	}
}

// RecordDecode implements vehpos.MetricsCollector.
func (c *Collector) RecordDecode(records int, truncated bool, duration time.Duration) {
	c.opLatency.WithLabelValues("decode", "success").Observe(duration.Seconds())
	c.decodedRecords.Add(float64(records))
	if truncated {
		c.truncatedLoads.Inc()
	}
}

// RecordSearch implements vehpos.MetricsCollector.
func (c *Collector) RecordSearch(evaluated int, found bool, duration time.Duration) {
	c.opLatency.WithLabelValues("search", "success").Observe(duration.Seconds())
	c.searchEvaluated.Observe(float64(evaluated))
	if found {
		c.searches.WithLabelValues("found").Inc()
	} else {
		c.searches.WithLabelValues("empty").Inc()
	}
}

// RecordBatchSearch implements vehpos.MetricsCollector. Per-query counts are
// not known for a batch, so only the total is added.
func (c *Collector) RecordBatchSearch(queries, evaluated int, duration time.Duration, err error) {
	c.opLatency.WithLabelValues("batch_search", status(err)).Observe(duration.Seconds())
	if err != nil {
		return
	}
	c.searches.WithLabelValues("batch").Add(float64(queries))
	if queries > 0 {
		c.searchEvaluated.Observe(float64(evaluated) / float64(queries))
	}
}
