package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	messagesDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldmux",
			Subsystem: "router",
			Name:      "messages_total",
			Help:      "Messages dispatched, by router and outcome.",
		},
		[]string{"router", "handled"},
	)
	readErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldmux",
			Subsystem: "router",
			Name:      "read_errors_total",
			Help:      "Stream read errors that stopped a router.",
		},
		[]string{"router"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldmux",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fieldmux",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(messagesDispatched, readErrors, httpRequests, httpDuration)
	})
}

// DispatchCounters are pre-resolved counters for one router, so recording an
// outcome is a single atomic add.
type DispatchCounters struct {
	handled   prometheus.Counter
	unhandled prometheus.Counter
	readErrs  prometheus.Counter
}

func NewDispatchCounters(router string) DispatchCounters {
	RegisterMetrics()
	return DispatchCounters{
		handled:   messagesDispatched.WithLabelValues(router, "true"),
		unhandled: messagesDispatched.WithLabelValues(router, "false"),
		readErrs:  readErrors.WithLabelValues(router),
	}
}

func (c DispatchCounters) RecordDispatch(handled bool) {
	if handled {
		c.handled.Inc()
		return
	}
	c.unhandled.Inc()
}

func (c DispatchCounters) RecordReadError() {
	c.readErrs.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
