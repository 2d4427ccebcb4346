// Package metrics exposes prometheus instruments for analyses and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feasibility"

// Metrics holds the instruments on a private registry. All methods are safe on
// a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	analysesTotal     *prometheus.CounterVec
	analysisDuration  prometheus.Histogram
	classifiedHours   *prometheus.CounterVec
	runsClaimed       prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total analyses executed by outcome.",
		}, []string{"status"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Histogram of analysis durations, dataset load included.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		classifiedHours: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classified_hours_total",
			Help:      "Total climate hours classified per operating mode.",
		}, []string{"mode"}),
		runsClaimed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_claimed",
			Help:      "Runs claimed by the runner in its last tick.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.analysesTotal,
		m.analysisDuration,
		m.classifiedHours,
		m.runsClaimed,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware counts requests by matched route and status.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// AnalysisDone records one finished analysis and, on success, the hours per mode.
func (m *Metrics) AnalysisDone(d time.Duration, hoursByMode map[string]int, err error) {
	if m == nil {
		return
	}
	m.analysisDuration.Observe(d.Seconds())
	if err != nil {
		m.analysesTotal.WithLabelValues("failed").Inc()
		return
	}
	m.analysesTotal.WithLabelValues("completed").Inc()
	for mode, n := range hoursByMode {
		m.classifiedHours.WithLabelValues(mode).Add(float64(n))
	}
}

// RunsClaimed sets the number of runs picked up by the last runner tick.
func (m *Metrics) RunsClaimed(n int) {
	if m == nil {
		return
	}
	m.runsClaimed.Set(float64(n))
}
