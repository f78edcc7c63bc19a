// Package assistant wires the prompt builder to a completion backend.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/metrics"
	"github.com/louiecerv/nvapp/internal/prompt"
)

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrCompletion   = errors.New("completion failed")
)

// ErrorPrefix starts the text shown in place of a reply when the backend fails.
const ErrorPrefix = "Error handling AI response: "

type Request struct {
	Platform string
	Task     string
	ModelID  string
}

type Result struct {
	Prompt   string
	Response string
	Model    string
	Elapsed  time.Duration
}

// Assistant is safe for concurrent use as long as its backends are.
type Assistant struct {
	backends     map[string]completion.Completer
	defaultModel string
}

func New(backends map[string]completion.Completer, defaultModel string) *Assistant {
	return &Assistant{backends: backends, defaultModel: defaultModel}
}

func (a *Assistant) DefaultModel() string { return a.defaultModel }

// Run builds the prompt for req and sends it to the selected backend once.
// A completion failure still returns the prompt, with Response set to the
// displayable error text; the error wraps ErrCompletion.
func (a *Assistant) Run(ctx context.Context, req Request) (Result, error) {
	text, err := prompt.Build(req.Platform, req.Task)
	if err != nil {
		return Result{}, err
	}

	modelID := req.ModelID
	if modelID == "" {
		modelID = a.defaultModel
	}
	backend, ok := a.backends[modelID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}

	metrics.PromptsTotal.WithLabelValues(req.Platform, req.Task).Inc()
	metrics.PromptChars.Observe(float64(len(text)))

	start := time.Now()
	reply, err := backend.Complete(ctx, text)
	elapsed := time.Since(start)
	metrics.CompletionDuration.WithLabelValues(modelID).Observe(elapsed.Seconds())

	res := Result{Prompt: text, Model: modelID, Elapsed: elapsed}
	if err != nil {
		metrics.CompletionFailures.WithLabelValues(modelID).Inc()
		log.Ctx(ctx).Warn().Err(err).Str("model", modelID).Dur("elapsed", elapsed).Msg("completion failed")
		res.Response = ErrorPrefix + err.Error()
		return res, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	res.Response = reply
	return res, nil
}
