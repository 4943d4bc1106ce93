// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline holds the pipeline's metric families behind a dedicated
// registry. A nil *Pipeline is a valid no-op recorder so callers don't
// have to guard every observation.
type Pipeline struct {
	registry *prometheus.Registry

	filesTotal     *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	filesInFlight  prometheus.Gauge
	batchesTotal   prometheus.Counter
	edgeDetections *prometheus.CounterVec
	previewsTotal  *prometheus.CounterVec
}

// NewPipeline builds and registers the pipeline metric families.
func NewPipeline() *Pipeline {
	registry := prometheus.NewRegistry()

	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resume",
			Subsystem: "pipeline",
			Name:      "files_total",
			Help:      "Files that finished the pipeline, by terminal status.",
		},
		[]string{"status"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resume",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	filesInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resume",
			Subsystem: "pipeline",
			Name:      "files_in_flight",
			Help:      "Files currently being processed.",
		},
	)
	batchesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resume",
			Subsystem: "pipeline",
			Name:      "batches_total",
			Help:      "Batches submitted to the pipeline.",
		},
	)
	edgeDetections := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resume",
			Subsystem: "camera",
			Name:      "edge_detections_total",
			Help:      "Edge-detection evaluations, by outcome.",
		},
		[]string{"document_likely"},
	)
	previewsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resume",
			Subsystem: "pipeline",
			Name:      "previews_total",
			Help:      "Live previews generated, by enablement.",
		},
		[]string{"enabled"},
	)

	registry.MustRegister(filesTotal, stageDuration, filesInFlight, batchesTotal, edgeDetections, previewsTotal)

	return &Pipeline{
		registry:       registry,
		filesTotal:     filesTotal,
		stageDuration:  stageDuration,
		filesInFlight:  filesInFlight,
		batchesTotal:   batchesTotal,
		edgeDetections: edgeDetections,
		previewsTotal:  previewsTotal,
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Pipeline) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FileStarted marks a file entering the pipeline.
func (m *Pipeline) FileStarted() {
	if m == nil {
		return
	}
	m.filesInFlight.Inc()
}

// FileFinished marks a file leaving the pipeline with its terminal
// status (complete or error).
func (m *Pipeline) FileFinished(status string) {
	if m == nil {
		return
	}
	m.filesInFlight.Dec()
	m.filesTotal.WithLabelValues(status).Inc()
}

// BatchStarted counts a submitted batch.
func (m *Pipeline) BatchStarted() {
	if m == nil {
		return
	}
	m.batchesTotal.Inc()
}

// ObserveStage records how long one stage of one file took.
func (m *Pipeline) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// EdgeDetection counts one frame evaluation.
func (m *Pipeline) EdgeDetection(documentLikely bool) {
	if m == nil {
		return
	}
	m.edgeDetections.WithLabelValues(boolLabel(documentLikely)).Inc()
}

// PreviewGenerated counts one live-preview attempt.
func (m *Pipeline) PreviewGenerated(enabled bool) {
	if m == nil {
		return
	}
	m.previewsTotal.WithLabelValues(boolLabel(enabled)).Inc()
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
