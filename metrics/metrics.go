package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for outbound webhook calls.
type WebhookMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	fragmentsTotal  prometheus.Counter
	malformedTotal  prometheus.Counter
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webhook_llm",
			Subsystem: "webhook",
			Name:      "requests_total",
			Help:      "Total outbound webhook requests",
		}, []string{"kind", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "webhook_llm",
			Subsystem: "webhook",
			Name:      "request_duration_seconds",
			Help:      "Time from sending a webhook request to receiving its response headers",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		fragmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webhook_llm",
			Subsystem: "stream",
			Name:      "fragments_total",
			Help:      "Content fragments received from streaming webhooks",
		}),
		malformedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webhook_llm",
			Subsystem: "stream",
			Name:      "malformed_lines_total",
			Help:      "Streaming response lines that were not valid JSON",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.fragmentsTotal, m.malformedTotal)
	return m
}

func (m *WebhookMetrics) ObserveRequest(kind, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(kind, status).Inc()
	m.requestDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *WebhookMetrics) ObserveFragment() {
	if m == nil {
		return
	}
	m.fragmentsTotal.Inc()
}

func (m *WebhookMetrics) ObserveMalformedLine() {
	if m == nil {
		return
	}
	m.malformedTotal.Inc()
}
