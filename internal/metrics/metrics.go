package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments DataStore operations and slot writes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	slotWrites *prometheus.HistogramVec
	records    *prometheus.GaugeVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siswa",
			Name:      "store_operations_total",
			Help:      "DataStore operations by name and result.",
		}, []string{"op", "result"}),
		slotWrites: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "siswa",
			Name:      "slot_write_seconds",
			Help:      "Latency of full-collection slot writes.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"slot", "result"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "siswa",
			Name:      "records",
			Help:      "Number of records held per collection.",
		}, []string{"slot"}),
	}
	reg.MustRegister(m.operations, m.slotWrites, m.records)
	return m
}

// Operation counts one store call.
func (m *Metrics) Operation(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result(err)).Inc()
}

// SlotWrite records one slot write and the collection size after it.
func (m *Metrics) SlotWrite(slot string, size int, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.slotWrites.WithLabelValues(slot, result(err)).Observe(d.Seconds())
	if err == nil {
		m.records.WithLabelValues(slot).Set(float64(size))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
