// Package metrics exposes Prometheus instrumentation for STL decode passes.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Faultbox/stlmesh/pkg/stl"
)

const (
	formatLabel = "format"
	resultLabel = "result"

	resultOK        = "ok"
	resultCancelled = "cancelled"
)

var (
	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stl_reads_total",
		Help: "The number of STL read passes by detected format and outcome.",
	}, []string{
		formatLabel,
		resultLabel,
	})

	nodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stl_nodes_total",
		Help: "The number of unique nodes registered with mesh sinks.",
	})

	trianglesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stl_triangles_total",
		Help: "The number of triangles delivered to mesh sinks.",
	})

	degenerateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stl_degenerate_total",
		Help: "The number of facets dropped because vertices merged.",
	})

	readDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stl_read_duration_seconds",
		Help:    "The time to decode one STL stream.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{
		formatLabel,
	})
)

// Instrument wraps sink so node and triangle registrations are counted.
// BeginBlock calls are forwarded when sink implements stl.BlockObserver.
func Instrument(sink stl.Sink) stl.Sink {
	return &sinkWithMetrics{Sink: sink}
}

type sinkWithMetrics struct {
	stl.Sink
}

func (s *sinkWithMetrics) AddNode(x, y, z float64) stl.NodeIndex {
	nodesTotal.Inc()
	return s.Sink.AddNode(x, y, z)
}

func (s *sinkWithMetrics) AddTriangle(n1, n2, n3 stl.NodeIndex) {
	trianglesTotal.Inc()
	s.Sink.AddTriangle(n1, n2, n3)
}

func (s *sinkWithMetrics) BeginBlock(info stl.BlockInfo) {
	if obs, ok := s.Sink.(stl.BlockObserver); ok {
		obs.BeginBlock(info)
	}
}

// ObserveRead records the outcome of one read pass.
func ObserveRead(stats stl.Stats, err error, d time.Duration) {
	format := stats.Format.String()

	readsTotal.With(prometheus.Labels{
		formatLabel: format,
		resultLabel: Result(stats, err),
	}).Inc()

	degenerateTotal.Add(float64(stats.Degenerate))

	readDuration.With(prometheus.Labels{
		formatLabel: format,
	}).Observe(d.Seconds())
}

// Result classifies a read outcome into a short label value.
func Result(stats stl.Stats, err error) string {
	switch {
	case err == nil && stats.Cancelled:
		return resultCancelled
	case err == nil:
		return resultOK
	case errors.Is(err, stl.ErrOpen):
		return "open_error"
	case errors.Is(err, stl.ErrCorruptHeader):
		return "corrupt_header"
	case errors.Is(err, stl.ErrTruncatedFacets):
		return "truncated"
	case errors.Is(err, stl.ErrPrematureEOF):
		return "premature_eof"
	case errors.Is(err, stl.ErrUnexpectedLine):
		return "unexpected_line"
	case errors.Is(err, stl.ErrBadVertex):
		return "bad_vertex"
	case errors.Is(err, stl.ErrRead):
		return "read_error"
	default:
		return "error"
	}
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
