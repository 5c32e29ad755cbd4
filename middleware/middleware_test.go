package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(4) // burst of 2
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", RateLimitMiddleware(2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := []int{}
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", RateLimitMiddleware(0), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestMetricsMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/42", nil))
	m.Engaged("like")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `nexus_http_requests_total{method="GET",route="/posts/:id",status="200"} 1`), body)
	assert.True(t, strings.Contains(body, `nexus_engagements_total{action="like"} 1`), body)
}
