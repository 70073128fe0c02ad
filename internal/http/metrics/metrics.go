package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

type Collector struct {
	requests    atomic.Uint64
	errors      atomic.Uint64
	rateLimited atomic.Uint64
	inFlight    atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	c.requests.Add(1)
}

func (c *Collector) IncErrors() {
	c.errors.Add(1)
}

func (c *Collector) IncRateLimited() {
	c.rateLimited.Add(1)
}

// TrackInFlight bumps the in-flight gauge and returns the matching decrement.
func (c *Collector) TrackInFlight() func() {
	c.inFlight.Add(1)
	return func() { c.inFlight.Add(-1) }
}

type Snapshot struct {
	Requests    uint64
	Errors      uint64
	RateLimited uint64
	InFlight    int64
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:    c.requests.Load(),
		Errors:      c.errors.Load(),
		RateLimited: c.rateLimited.Load(),
		InFlight:    c.inFlight.Load(),
	}
}

// WriteText renders the counters in the Prometheus text exposition format.
func (c *Collector) WriteText(w http.ResponseWriter) {
	var snap Snapshot
	if c != nil {
		snap = c.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeMetric(w, "jobconnect_http_requests_total", "counter", "Total number of HTTP requests.", fmt.Sprint(snap.Requests))
	writeMetric(w, "jobconnect_http_errors_total", "counter", "Total number of 5xx HTTP responses.", fmt.Sprint(snap.Errors))
	writeMetric(w, "jobconnect_http_rate_limited_total", "counter", "Requests rejected by the rate limiter.", fmt.Sprint(snap.RateLimited))
	writeMetric(w, "jobconnect_http_requests_in_flight", "gauge", "Requests currently being served.", fmt.Sprint(snap.InFlight))
}

func writeMetric(w http.ResponseWriter, name, kind, help, value string) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	_, _ = fmt.Fprintf(w, "%s %s\n", name, value)
}
