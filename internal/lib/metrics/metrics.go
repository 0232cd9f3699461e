// Package metrics exposes Prometheus counters for browser requests and calls to the remote API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	APICalls        *prometheus.CounterVec
	APICallDuration *prometheus.HistogramVec
}

// New creates the metrics on a dedicated registry, so tests can build as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviesocial_http_requests_total",
			Help: "Total number of browser requests served",
		}, []string{"code", "method"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moviesocial_http_request_duration_seconds",
			Help:    "Time spent serving browser requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"code", "method"}),
		APICalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviesocial_api_calls_total",
			Help: "Total number of calls made to the remote API",
		}, []string{"code", "method"}),
		APICallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moviesocial_api_call_duration_seconds",
			Help:    "Latency of calls made to the remote API",
			Buckets: prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
	reg.MustRegister(m.Requests, m.RequestDuration, m.APICalls, m.APICallDuration)
	return m
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.Requests,
		promhttp.InstrumentHandlerDuration(m.RequestDuration, next))
}

// Transport instruments outgoing calls. A nil next means http.DefaultTransport.
func (m *Metrics) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.APICalls,
		promhttp.InstrumentRoundTripperDuration(m.APICallDuration, next))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
