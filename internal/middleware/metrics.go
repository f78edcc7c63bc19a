package middleware

import (
	"net/http"
	"strconv"

	"github.com/louiecerv/nvapp/internal/metrics"
)

// Routes recorded under their own path label; everything else is "other".
var metricPaths = map[string]bool{
	"/":             true,
	"/api/generate": true,
	"/api/health":   true,
	"/api/models":   true,
	"/api/options":  true,
	"/metrics":      true,
}

// Metrics records request count by method, path, and status code.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, metricPath(r.URL.Path), strconv.Itoa(sw.status)).Inc()
	})
}

func metricPath(p string) string {
	if metricPaths[p] {
		return p
	}
	return "other"
}
