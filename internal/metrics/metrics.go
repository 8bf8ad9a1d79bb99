package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SettingsUpdates prometheus.Counter
}

var (
	once   sync.Once
	global *Metrics
)

func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "voice_admin",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, route and status",
			}, []string{"method", "route", "status"}),
			RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "voice_admin",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route"}),
			SettingsUpdates: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "voice_admin",
				Name:      "settings_updates_total",
				Help:      "Total successful platform settings updates",
			}),
		}
		prometheus.MustRegister(global.RequestsTotal, global.RequestDuration, global.SettingsUpdates)
	})
	return global
}

// GinMiddleware records per-request counters and latency. Routes are labeled
// by their registered pattern, not the raw path, to keep cardinality bounded.
func GinMiddleware() gin.HandlerFunc {
	m := Global()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
