package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/julianstephens/habitify/internal/metrics"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/habits/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/habits/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		endpoint string
		status   string
	}{
		{"implicit 200 labelled by pattern", http.MethodGet, "/habits/abc", "/habits/{id}", "200"},
		{"first status wins", http.MethodPost, "/habits/fail", "/habits/fail", "503"},
		{"unknown path", http.MethodGet, "/nowhere/at/all", unmatchedRoute, "404"},
	}

	router := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status)
			before := testutil.ToFloat64(counter)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("counter delta for %s %s = %v, want 1", tt.endpoint, tt.status, got)
			}
		})
	}
}

func TestPrometheusMetricsReleasesActiveGauge(t *testing.T) {
	start := testutil.ToFloat64(metrics.APIActiveRequests)

	var during float64
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if during != start+1 {
		t.Errorf("active during request = %v, want %v", during, start+1)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != start {
		t.Errorf("active after request = %v, want %v", got, start)
	}
}

func TestAccessLogPassesThrough(t *testing.T) {
	handler := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" {
		t.Errorf("response = %d %q", rec.Code, rec.Body.String())
	}
}
