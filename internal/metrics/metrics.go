package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "countryvotes"

type Metrics struct {
	gatherer prometheus.Gatherer

	votesSubmitted  *prometheus.CounterVec
	referenceFetch  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the service collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		votesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_submitted_total",
			Help:      "Vote submissions by outcome",
		}, []string{"result"}),
		referenceFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_fetches_total",
			Help:      "Outbound reference country fetches by outcome",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.votesSubmitted, m.referenceFetch, m.requestDuration)
	return m
}

func (m *Metrics) VoteSubmitted(result string) {
	m.votesSubmitted.WithLabelValues(result).Inc()
}

func (m *Metrics) ReferenceFetched(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.referenceFetch.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
