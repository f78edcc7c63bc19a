package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/louiecerv/nvapp/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		wantPath string
		wantCode string
	}{
		{"generate ok", http.MethodPost, "/api/generate", http.StatusOK, "/api/generate", "200"},
		{"upstream failure", http.MethodPost, "/api/generate", http.StatusBadGateway, "/api/generate", "502"},
		{"unknown path collapsed", http.MethodGet, "/wp-login.php", http.StatusNotFound, "other", "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			counter := metrics.RequestsTotal.WithLabelValues(tt.method, tt.wantPath, tt.wantCode)
			before := testutil.ToFloat64(counter)

			w := httptest.NewRecorder()
			Metrics(inner).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if after := testutil.ToFloat64(counter); after != before+1 {
				t.Errorf("counter: got %f, want %f", after, before+1)
			}
		})
	}
}
