// Package metrics exposes the pipeline's Prometheus instrumentation: row
// level load counters, graph size gauges, export throughput and API latency.
// Collectors register themselves on the default registry; the server mounts
// promhttp next to the API routes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dataset load metrics.
	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_rows_ingested_total",
			Help: "Total number of dataset rows accepted during loads",
		},
		[]string{"dataset"},
	)

	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_rows_skipped_total",
			Help: "Total number of dataset rows skipped during loads",
		},
		[]string{"dataset", "reason"},
	)

	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Duration of individual dataset loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	AssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assembly_duration_seconds",
			Help:    "Duration of full dataset assemblies in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	AssemblyRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembly_runs_total",
			Help: "Total number of dataset assemblies by result",
		},
		[]string{"result"},
	)

	// Graph size gauges, refreshed after every assembly.
	GraphVertices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_vertices",
			Help: "Current number of vertices per graph",
		},
		[]string{"graph"},
	)

	GraphEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_edges",
			Help: "Current number of edges per graph",
		},
		[]string{"graph"},
	)

	// Export metrics.
	ExportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_export_records_total",
			Help: "Total number of records written to the graph database",
		},
		[]string{"kind"},
	)

	ExportErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graph_export_errors_total",
			Help: "Total number of failed graph export tasks",
		},
	)

	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graph_export_duration_seconds",
			Help:    "Duration of graph exports in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)
)

// Recorder adapts the package collectors to the loader's per-row metrics
// hook. The zero value is ready to use.
type Recorder struct{}

// RowIngested counts an accepted row for the dataset.
func (Recorder) RowIngested(dataset string) {
	RowsIngested.WithLabelValues(dataset).Inc()
}

// RowSkipped counts a skipped row for the dataset and reason.
func (Recorder) RowSkipped(dataset, reason string) {
	RowsSkipped.WithLabelValues(dataset, reason).Inc()
}

// ObserveLoad records the duration of one dataset load.
func ObserveLoad(dataset string, d time.Duration) {
	LoadDuration.WithLabelValues(dataset).Observe(d.Seconds())
}

// RecordAssembly records a full assembly run and its outcome.
func RecordAssembly(d time.Duration, err error) {
	AssemblyDuration.Observe(d.Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	AssemblyRuns.WithLabelValues(result).Inc()
}

// SetGraphSize updates the size gauges for one graph.
func SetGraphSize(graph string, vertices, edges int) {
	GraphVertices.WithLabelValues(graph).Set(float64(vertices))
	GraphEdges.WithLabelValues(graph).Set(float64(edges))
}

// RecordExported counts records of one kind written to the graph database.
func RecordExported(kind string, records int) {
	ExportRecords.WithLabelValues(kind).Add(float64(records))
}

// RecordExportRun records the duration and outcome of one export run.
func RecordExportRun(d time.Duration, err error) {
	ExportDuration.Observe(d.Seconds())
	if err != nil {
		ExportErrors.Inc()
	}
}

// RecordAPIRequest records one served API request.
func RecordAPIRequest(method, endpoint string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}
