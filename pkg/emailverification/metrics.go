package emailverification

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts issuance requests, verification visits and mail deliveries.
// A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	verifications *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
}

// NewMetrics registers the email verification counters on reg (or the
// default registerer if nil). Counters already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailverification_requests_total",
		Help: "Verification requests by result",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	verifications, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailverification_verifications_total",
		Help: "Verification link visits by outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	deliveries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emailverification_mail_deliveries_total",
		Help: "Verification mail deliveries by result",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:      requests,
		verifications: verifications,
		deliveries:    deliveries,
	}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) request(result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(result).Inc()
}

func (m *Metrics) verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) delivery(result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(result).Inc()
}
