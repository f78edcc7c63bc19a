package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/louiecerv/nvapp/internal/completion"
)

// Config holds all application configuration.
type Config struct {
	Port      int    `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	RateLimit int    `yaml:"rate_limit"`

	NvidiaAPIKey  string `yaml:"nvidia_api_key"`
	NvidiaBaseURL string `yaml:"nvidia_base_url"`
	NvidiaModel   string `yaml:"nvidia_model"`

	ClaudeAPIKey string `yaml:"claude_api_key"`
	ClaudeModel  string `yaml:"claude_model"`

	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`

	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaults() Config {
	p := completion.DefaultParams()
	return Config{
		Port:          8090,
		RateLimit:     30,
		NvidiaBaseURL: completion.NVIDIABaseURL,
		NvidiaModel:   completion.NVIDIAModel,
		ClaudeModel:   "claude-sonnet-4-5-20250929",
		OllamaModel:   "llama3.1:8b",
		Temperature:   p.Temperature,
		TopP:          p.TopP,
		MaxTokens:     p.MaxTokens,
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// LoadDotEnv exports KEY=VALUE pairs from path into the process environment
// without replacing variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from a YAML file (if path is non-empty),
// then applies environment variable overrides. An empty path returns defaults + env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	// The bare name is what the hosted catalog documents; the prefixed one wins.
	if v := os.Getenv("NVIDIA_API_KEY"); v != "" {
		cfg.NvidiaAPIKey = v
	}

	strs := []struct {
		env string
		dst *string
	}{
		{"NVAPP_API_KEY", &cfg.APIKey},
		{"NVAPP_NVIDIA_API_KEY", &cfg.NvidiaAPIKey},
		{"NVAPP_NVIDIA_BASE_URL", &cfg.NvidiaBaseURL},
		{"NVAPP_NVIDIA_MODEL", &cfg.NvidiaModel},
		{"NVAPP_CLAUDE_API_KEY", &cfg.ClaudeAPIKey},
		{"NVAPP_CLAUDE_MODEL", &cfg.ClaudeModel},
		{"NVAPP_OLLAMA_URL", &cfg.OllamaURL},
		{"NVAPP_OLLAMA_MODEL", &cfg.OllamaModel},
		{"NVAPP_LOG_LEVEL", &cfg.LogLevel},
		{"NVAPP_LOG_FORMAT", &cfg.LogFormat},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"NVAPP_PORT", &cfg.Port},
		{"NVAPP_RATE_LIMIT", &cfg.RateLimit},
		{"NVAPP_MAX_TOKENS", &cfg.MaxTokens},
	}
	for _, i := range ints {
		if v := os.Getenv(i.env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: invalid %s %q: %w", i.env, v, err)
			}
			*i.dst = n
		}
	}

	floats := []struct {
		env string
		dst *float32
	}{
		{"NVAPP_TEMPERATURE", &cfg.Temperature},
		{"NVAPP_TOP_P", &cfg.TopP},
	}
	for _, f := range floats {
		if v := os.Getenv(f.env); v != "" {
			x, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return fmt.Errorf("config: invalid %s %q: %w", f.env, v, err)
			}
			*f.dst = float32(x)
		}
	}

	return nil
}

// Params returns the sampling settings shared by every backend.
func (c Config) Params() completion.Params {
	return completion.Params{
		Temperature: c.Temperature,
		TopP:        c.TopP,
		MaxTokens:   c.MaxTokens,
	}
}

// Validate reports configuration that cannot serve requests.
// With mock set, no real backend is required.
func (c Config) Validate(mock bool) error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("config: rate_limit must be positive, got %d", c.RateLimit)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("config: top_p %.2f out of range (0, 1]", c.TopP)
	}
	if mock {
		return nil
	}
	if c.NvidiaAPIKey == "" && c.ClaudeAPIKey == "" && c.OllamaURL == "" {
		return errors.New("config: NVIDIA_API_KEY environment variable not found")
	}

	// Models are addressed by name, so enabled backends must not share one.
	seen := make(map[string]string)
	for _, b := range []struct{ backend, model string }{
		{"nvidia", enabledModel(c.NvidiaAPIKey, c.NvidiaModel)},
		{"claude", enabledModel(c.ClaudeAPIKey, c.ClaudeModel)},
		{"ollama", enabledModel(c.OllamaURL, c.OllamaModel)},
	} {
		if b.model == "" {
			continue
		}
		if prev, ok := seen[b.model]; ok {
			return fmt.Errorf("config: %s and %s both use model %q", prev, b.backend, b.model)
		}
		seen[b.model] = b.backend
	}
	return nil
}

func enabledModel(switchOn, model string) string {
	if switchOn == "" {
		return ""
	}
	return model
}
