// Package metrics owns the Prometheus instruments of the service.
// All Record* methods are nil-safe so components can run without a recorder.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "liquidaciones"

// Recorder groups every instrument exported on /metrics.
type Recorder struct {
	reg           *prom.Registry
	httpRequests  *prom.CounterVec
	httpDuration  *prom.HistogramVec
	jobResults    *prom.CounterVec
	jobRetries    *prom.CounterVec
	breaker       *prom.GaugeVec
	liquidaciones *prom.CounterVec
}

// New builds a Recorder on its own registry, with Go and process collectors.
func New() *Recorder {
	reg := prom.NewRegistry()
	r := &Recorder{
		reg: reg,
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "method"}),
		jobResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Async jobs processed by type and result (ok, retry, dlq, discarded)",
		}, []string{"type", "result"}),
		jobRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_requeued_total",
			Help:      "Scheduled retries moved back onto their queue",
		}, []string{"queue"}),
		breaker: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		}, []string{"name"}),
		liquidaciones: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "liquidacion_events_total",
			Help:      "Liquidación lifecycle events (creada, estado, eliminada)",
		}, []string{"event"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests, r.httpDuration, r.jobResults, r.jobRetries, r.breaker, r.liquidaciones,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// GinMiddleware records one observation per request, labelled by route template.
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if r == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func (r *Recorder) RecordJob(jobType, result string) {
	if r == nil {
		return
	}
	r.jobResults.WithLabelValues(jobType, result).Inc()
}

func (r *Recorder) RecordRequeue(queue string) {
	if r == nil {
		return
	}
	r.jobRetries.WithLabelValues(queue).Inc()
}

func (r *Recorder) SetBreakerState(name string, state int) {
	if r == nil {
		return
	}
	r.breaker.WithLabelValues(name).Set(float64(state))
}

func (r *Recorder) RecordLiquidacion(event string) {
	if r == nil {
		return
	}
	r.liquidaciones.WithLabelValues(event).Inc()
}
