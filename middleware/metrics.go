package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry,
// so several routers can coexist in one process (tests).
type Metrics struct {
	Registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	Engagements *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
		Engagements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_engagements_total",
				Help: "Total number of accepted engagement actions by kind",
			},
			[]string{"action"},
		),
	}
	m.Registry.MustRegister(m.Requests, m.Engagements)
	return m
}

// Middleware counts every request by matched route template, not raw path.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Engaged records one successful engagement action.
func (m *Metrics) Engaged(action string) {
	if m == nil {
		return
	}
	m.Engagements.WithLabelValues(action).Inc()
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
