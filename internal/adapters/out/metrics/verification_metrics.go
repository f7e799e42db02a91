// Package metrics exposes delivery token counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VerificationMetrics implements ports.VerificationMetrics with Prometheus counters.
type VerificationMetrics struct {
	issued   *prometheus.CounterVec
	attempts *prometheus.CounterVec
}

// NewVerificationMetrics creates the counters and registers them with reg.
func NewVerificationMetrics(reg prometheus.Registerer) (*VerificationMetrics, error) {
	m := &VerificationMetrics{
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderflow",
			Name:      "delivery_tokens_issued_total",
			Help:      "Delivery tokens issued, by aggregate type.",
		}, []string{"aggregate_type"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderflow",
			Name:      "delivery_verifications_total",
			Help:      "Delivery token verification attempts, by aggregate type and outcome.",
		}, []string{"aggregate_type", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.issued, m.attempts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *VerificationMetrics) TokenIssued(aggregateType string) {
	m.issued.WithLabelValues(aggregateType).Inc()
}

func (m *VerificationMetrics) VerificationAttempted(aggregateType, outcome string) {
	m.attempts.WithLabelValues(aggregateType, outcome).Inc()
}
