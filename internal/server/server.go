package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/louiecerv/nvapp/internal/assistant"
	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/handler"
	"github.com/louiecerv/nvapp/internal/middleware"
	"github.com/louiecerv/nvapp/internal/ui"
)

// Options configures the HTTP surface.
type Options struct {
	Backends     map[string]completion.Completer
	Models       []completion.ModelInfo
	DefaultModel string
	APIKey       string
	// RateLimit is the number of requests allowed per client IP per minute.
	RateLimit int
}

// SetupMux wires handlers with the full middleware chain.
func SetupMux(opts Options) http.Handler {
	a := assistant.New(opts.Backends, opts.DefaultModel)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.Page(a, ui.NewForm(opts.Models)))
	mux.HandleFunc("/api/health", handler.Health(opts.Backends))
	mux.HandleFunc("/api/models", handler.Models(opts.Models))
	mux.HandleFunc("/api/options", handler.Options())
	mux.HandleFunc("/api/generate", handler.Generate(a))
	mux.Handle("/metrics", promhttp.Handler())

	rl := middleware.NewRateLimiter(opts.RateLimit, time.Minute)
	return middleware.Chain(mux, rl, opts.APIKey)
}
