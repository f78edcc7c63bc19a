package completion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	NVIDIABaseURL = "https://integrate.api.nvidia.com/v1"
	NVIDIAModel   = "meta/llama-3.1-405b-instruct"
)

// OpenAICompat talks to any OpenAI-compatible /chat/completions endpoint.
// The hosted NVIDIA catalog is the default; llama-server and vLLM work too.
type OpenAICompat struct {
	BaseURL string
	APIKey  string
	Model   string
	Params  Params
	Client  *http.Client
}

func (o *OpenAICompat) Name() string {
	return fmt.Sprintf("OpenAI-compatible (%s)", o.Model)
}

func (o *OpenAICompat) api() *openai.Client {
	cfg := openai.DefaultConfig(o.APIKey)
	cfg.BaseURL = o.baseURL()
	if o.Client != nil {
		cfg.HTTPClient = o.Client
	}
	return openai.NewClientWithConfig(cfg)
}

func (o *OpenAICompat) baseURL() string {
	if o.BaseURL == "" {
		return NVIDIABaseURL
	}
	return strings.TrimRight(o.BaseURL, "/")
}

func (o *OpenAICompat) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: wireTemperature(o.Params.Temperature),
		TopP:        o.Params.TopP,
		MaxTokens:   o.Params.MaxTokens,
		Stream:      false,
	}

	resp, err := o.api().CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai: API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("openai: request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// wireTemperature keeps an explicit 0 on the wire; the request field is
// omitempty and the upstream would otherwise apply its own default.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// Available lists models with a short deadline; the hosted catalog and
// llama-server both serve GET /models.
func (o *OpenAICompat) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := o.api().ListModels(ctx)
	return err == nil
}
