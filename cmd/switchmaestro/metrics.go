package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/registry"
)

// Metrics holds the server's prometheus collectors on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	saves           *prometheus.CounterVec
	activations     *prometheus.CounterVec
}

// NewMetrics registers request counters and dashboard gauges
func NewMetrics(dashboard *layout.Dashboard, reg *registry.Registry) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchmaestro",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "switchmaestro",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchmaestro",
			Name:      "layout_saves_total",
			Help:      "Layout save attempts by result.",
		}, []string{"result"}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchmaestro",
			Name:      "pattern_switch_requests_total",
			Help:      "Switch activation requests issued by pattern banks, by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.saves,
		m.activations,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "switchmaestro",
			Name:      "widgets",
			Help:      "Number of widgets on the dashboard.",
		}, func() float64 { return float64(dashboard.Widgets.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "switchmaestro",
			Name:      "active_switches",
			Help:      "Number of switches that are on.",
		}, func() float64 { return float64(reg.ActiveCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "switchmaestro",
			Name:      "total_current_amps",
			Help:      "Summed current draw of all active switches.",
		}, reg.TotalCurrent),
	)
	return m
}

// Handler serves the metrics in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeRequest(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeSave(err error) {
	if err != nil {
		m.saves.WithLabelValues("failed").Inc()
		return
	}
	m.saves.WithLabelValues("ok").Inc()
}

func (m *Metrics) observeActivation(result layout.ActivationResult) {
	m.activations.WithLabelValues("skipped").Add(float64(len(result.Skipped)))
	m.activations.WithLabelValues("failed").Add(float64(len(result.Failed)))
	m.activations.WithLabelValues("ok").Add(float64(len(result.Requested) - len(result.Failed)))
}
