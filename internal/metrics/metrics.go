// Package metrics records client-side request metrics with Prometheus.
package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector is what the gateway reports to.
type Collector interface {
	// RecordRequest records one finished backend request. status is 0 when no response arrived.
	RecordRequest(method, route string, status int, d time.Duration)
	// RecordFailure records a classified failure, e.g. "unauthorized".
	RecordFailure(kind string)
}

// Prom is the Prometheus implementation of Collector.
type Prom struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewProm creates a Prom and registers its metrics on reg.
func NewProm(reg prometheus.Registerer) *Prom {
	c := &Prom{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_client_requests_total",
			Help: "Backend requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketplace_client_request_duration_seconds",
			Help:    "Backend request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_client_failures_total",
			Help: "Classified request failures by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(c.requests, c.latency, c.failures)
	return c
}

// RecordRequest implements Collector.
func (c *Prom) RecordRequest(method, route string, status int, d time.Duration) {
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	c.requests.WithLabelValues(method, route, code).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordFailure implements Collector.
func (c *Prom) RecordFailure(kind string) {
	c.failures.WithLabelValues(kind).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordFailure(string) {}

var (
	_ Collector = (*Prom)(nil)
	_ Collector = Nop{}
)

// Dump writes everything g gathers in the Prometheus text format.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
