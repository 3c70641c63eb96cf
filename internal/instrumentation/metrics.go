package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the integrator service.
type Metrics struct {
	MessagesProcessed *prometheus.CounterVec
	DecodeFailures    *prometheus.CounterVec
	UnknownFacilities prometheus.Counter
	JoinResults       *prometheus.CounterVec

	CycleDurationMs prometheus.Histogram
	CyclesTotal     prometheus.Counter

	MarketIndexSize   prometheus.Gauge
	FacilitiesTracked prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "integrator_messages_processed_total",
			Help: "Messages drained and applied, by stream",
		}, []string{"stream"}),

		DecodeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "integrator_decode_failures_total",
			Help: "Messages dropped due to missing or malformed fields, by stream",
		}, []string{"stream"}),

		UnknownFacilities: promauto.NewCounter(prometheus.CounterOpts{
			Name: "integrator_unknown_facility_dropped_total",
			Help: "Facility readings filtered because the code is absent from metadata",
		}),

		JoinResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "integrator_market_join_total",
			Help: "Facility-to-market join outcomes",
		}, []string{"result"}),

		CycleDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "integrator_cycle_duration_ms",
			Help:    "Wall time of one drain/join cycle in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		CyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "integrator_cycles_total",
			Help: "Total drain/join cycles executed",
		}),

		MarketIndexSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "integrator_market_index_entries",
			Help: "Current (bucket, region) entries held in the market index",
		}),

		FacilitiesTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "integrator_facilities_tracked",
			Help: "Facilities with an integrated record in the state store",
		}),
	}
}

// RecordProcessed counts one applied message for a stream.
func (m *Metrics) RecordProcessed(stream string) {
	m.MessagesProcessed.WithLabelValues(stream).Inc()
}

// RecordDecodeFailure counts one dropped malformed message for a stream.
func (m *Metrics) RecordDecodeFailure(stream string) {
	m.DecodeFailures.WithLabelValues(stream).Inc()
}

// RecordUnknownFacility counts one reading filtered for an unknown code.
func (m *Metrics) RecordUnknownFacility() {
	m.UnknownFacilities.Inc()
}

// RecordJoin counts one join outcome ("hit" or "miss").
func (m *Metrics) RecordJoin(result string) {
	m.JoinResults.WithLabelValues(result).Inc()
}

// RecordCycle records the duration of one completed cycle.
func (m *Metrics) RecordCycle(durationMs float64) {
	m.CyclesTotal.Inc()
	m.CycleDurationMs.Observe(durationMs)
}

// RecordSizes updates the structure-size gauges.
func (m *Metrics) RecordSizes(indexEntries, facilitiesTracked int) {
	m.MarketIndexSize.Set(float64(indexEntries))
	m.FacilitiesTracked.Set(float64(facilitiesTracked))
}
