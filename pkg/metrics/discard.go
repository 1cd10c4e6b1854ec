package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/voidfs/blockdiscard/pkg/discard"
)

// discardMetrics is the Prometheus implementation of discard.Metrics.
type discardMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	reclaimedBytes  prometheus.Counter
}

// NewDiscardMetrics creates a Prometheus-backed discard.Metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called). The nil
// can be passed straight to discard.Config, which disables collection with
// zero overhead.
func NewDiscardMetrics() discard.Metrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &discardMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockdiscard_requests_total",
				Help: "Total discard requests by outcome and failing sub-operation",
			},
			[]string{"status", "op"},
		),
		requestDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name: "blockdiscard_request_duration_milliseconds",
				Help: "Duration of discard requests in milliseconds",
				Buckets: []float64{
					1,    // 1ms - metadata-only and small punches
					5,    // 5ms
					10,   // 10ms
					50,   // 50ms
					100,  // 100ms - large device discards
					500,  // 500ms
					1000, // 1s
					5000, // 5s - worst-case rotational devices
				},
			},
		),
		reclaimedBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "blockdiscard_reclaimed_bytes_total",
				Help: "Total bytes whose backing storage was released or zeroed",
			},
		),
	}
}

// ObserveRequest records one completed discard request.
func (m *discardMetrics) ObserveRequest(duration time.Duration, err error) {
	status := "success"
	op := discard.OpNone

	if err != nil {
		status = "error"
		var opErr *discard.OpError
		if errors.As(err, &opErr) {
			op = opErr.Op
		}
	}

	m.requestsTotal.WithLabelValues(status, op.String()).Inc()
	m.requestDuration.Observe(float64(duration.Milliseconds()))
}

// AddReclaimedBytes counts bytes released by a successful request.
func (m *discardMetrics) AddReclaimedBytes(n uint64) {
	m.reclaimedBytes.Add(float64(n))
}
