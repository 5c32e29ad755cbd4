package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/nexus/config"
	"github.com/cppla/nexus/routes"
	"github.com/cppla/nexus/store/storetest"
)

func testConfig() config.AppConfig {
	cfg := config.Defaults()
	cfg.GinMode = "test"
	cfg.GinPath = ""
	return cfg
}

func TestRouterServesFeedAndMetrics(t *testing.T) {
	st := storetest.New(t)
	author := storetest.User(t, st, "alice")
	storetest.Posts(t, st, author, 2)
	r := routes.SetupRouter(st, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `nexus_http_requests_total{method="GET",route="/api/posts",status="200"} 1`)
}

func TestRouterUnknownAPIRoute(t *testing.T) {
	r := routes.SetupRouter(storetest.New(t), testConfig())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40400`)
}

func TestRouterRateLimitsWrites(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2 // burst of 1
	r := routes.SetupRouter(storetest.New(t), cfg)

	post := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	// Reads are not limited
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	r := routes.SetupRouter(storetest.New(t), testConfig())
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
