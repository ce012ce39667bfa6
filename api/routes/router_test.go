package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calebreyes/storefront-backend/pkg/config"
	"github.com/calebreyes/storefront-backend/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "storefront-test"},
	}
}

func TestRouterPublicSurface(t *testing.T) {
	t.Parallel()

	router := NewRouter(testConfig(), nil, Dependencies{Metrics: metrics.NewHTTPMetrics()})

	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"liveness", http.MethodGet, "/health/live", http.StatusOK},
		{"readiness without deps", http.MethodGet, "/health/ready", http.StatusOK},
		{"public ping", http.MethodGet, "/api/public/ping", http.StatusOK},
		{"metrics scrape", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRouterAdminRequiresOperator(t *testing.T) {
	t.Parallel()

	router := NewRouter(testConfig(), nil, Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	req.Header.Set("X-Guest-Token", "guest-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
