package handler

import (
	"net/http"

	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/metrics"
)

type backendStatus struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type healthResponse struct {
	Status   string                   `json:"status"`
	Backends map[string]backendStatus `json:"backends"`
}

func Health(backends map[string]completion.Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := make(map[string]backendStatus, len(backends))
		for id, b := range backends {
			s := backendStatus{Available: b.Available()}
			gauge := metrics.BackendAvailable.WithLabelValues(id)
			if s.Available {
				gauge.Set(1)
			} else {
				gauge.Set(0)
				s.Reason = unavailableReason(b)
			}
			statuses[id] = s
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Backends: statuses,
		})
	}
}

func unavailableReason(b completion.Completer) string {
	switch b.(type) {
	case *completion.Claude:
		return "no API key"
	case *completion.Ollama:
		return "ollama unreachable"
	case *completion.OpenAICompat:
		return "chat completions endpoint unreachable"
	default:
		return "unavailable"
	}
}
