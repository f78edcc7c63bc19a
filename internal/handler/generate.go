package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/louiecerv/nvapp/internal/assistant"
	"github.com/louiecerv/nvapp/internal/prompt"
)

type generateRequest struct {
	Platform string `json:"platform"`
	Task     string `json:"task"`
	ModelID  string `json:"model_id,omitempty"`
}

type generateResponse struct {
	Prompt    string `json:"prompt"`
	Response  string `json:"response"`
	Model     string `json:"model"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func Generate(a *assistant.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if req.Platform == "" {
			writeError(w, http.StatusBadRequest, "platform is required")
			return
		}
		if req.Task == "" {
			writeError(w, http.StatusBadRequest, "task is required")
			return
		}

		res, err := a.Run(r.Context(), assistant.Request{
			Platform: req.Platform,
			Task:     req.Task,
			ModelID:  req.ModelID,
		})
		if err != nil {
			code := statusFor(err)
			if code == http.StatusBadGateway {
				writeJSON(w, code, errorResponse{Error: res.Response, Prompt: res.Prompt})
				return
			}
			writeError(w, code, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			Prompt:    res.Prompt,
			Response:  res.Response,
			Model:     res.Model,
			ElapsedMs: res.Elapsed.Milliseconds(),
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, prompt.ErrUnknownPlatform),
		errors.Is(err, prompt.ErrUnknownTask),
		errors.Is(err, assistant.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
