package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/config"
	"github.com/louiecerv/nvapp/internal/logging"
	"github.com/louiecerv/nvapp/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	useMock := flag.Bool("mock", false, "use mock backend instead of real completion endpoints")
	port := flag.Int("port", 0, "override listen port")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatal().Err(err).Msg("env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *port > 0 {
		cfg.Port = *port
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	if err := cfg.Validate(*useMock); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	backends, models := buildBackends(cfg, *useMock)
	handler := server.SetupMux(server.Options{
		Backends:     backends,
		Models:       models,
		DefaultModel: models[0].ID,
		APIKey:       cfg.APIKey,
		RateLimit:    cfg.RateLimit,
	})

	if cfg.APIKey != "" {
		log.Info().Msg("auth: API key required on /api (X-API-Key header)")
	} else {
		log.Info().Msg("auth: disabled (no api_key configured)")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Str("default_model", models[0].ID).Msg("nvapp listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("exit")
	}
	log.Info().Msg("server stopped")
}

// buildBackends returns the configured backends in priority order; the first
// model is the form's default.
func buildBackends(cfg config.Config, useMock bool) (map[string]completion.Completer, []completion.ModelInfo) {
	backends := make(map[string]completion.Completer)
	var models []completion.ModelInfo

	if useMock {
		backends["mock"] = &completion.Mock{Delay: 500 * time.Millisecond}
		models = append(models, completion.ModelInfo{ID: "mock", Name: "Mock (dev)", Provider: "mock"})
		log.Info().Msg("mode: mock backend enabled")
		return backends, models
	}

	params := cfg.Params()

	// 1. NVIDIA hosted catalog, or any other OpenAI-compatible server
	if cfg.NvidiaAPIKey != "" {
		backends[cfg.NvidiaModel] = &completion.OpenAICompat{
			BaseURL: cfg.NvidiaBaseURL,
			APIKey:  cfg.NvidiaAPIKey,
			Model:   cfg.NvidiaModel,
			Params:  params,
			Client:  &http.Client{Timeout: 120 * time.Second},
		}
		models = append(models, completion.ModelInfo{ID: cfg.NvidiaModel, Name: "NVIDIA (" + cfg.NvidiaModel + ")", Provider: "openai"})
		log.Info().Str("base_url", cfg.NvidiaBaseURL).Str("model", cfg.NvidiaModel).Msg("mode: openai-compatible enabled")
	}

	// 2. Claude
	if cfg.ClaudeAPIKey != "" {
		backends[cfg.ClaudeModel] = &completion.Claude{
			APIKey: cfg.ClaudeAPIKey,
			Model:  cfg.ClaudeModel,
			Params: params,
			Client: &http.Client{Timeout: 60 * time.Second},
		}
		models = append(models, completion.ModelInfo{ID: cfg.ClaudeModel, Name: "Claude (" + cfg.ClaudeModel + ")", Provider: "claude"})
		log.Info().Str("model", cfg.ClaudeModel).Msg("mode: claude enabled")
	}

	// 3. Ollama
	if cfg.OllamaURL != "" {
		backends[cfg.OllamaModel] = &completion.Ollama{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
			Params:  params,
			Client:  &http.Client{Timeout: 120 * time.Second},
		}
		models = append(models, completion.ModelInfo{ID: cfg.OllamaModel, Name: "Ollama (" + cfg.OllamaModel + ")", Provider: "ollama"})
		log.Info().Str("url", cfg.OllamaURL).Str("model", cfg.OllamaModel).Msg("mode: ollama enabled")
	}

	return backends, models
}
