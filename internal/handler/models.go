package handler

import (
	"net/http"

	"github.com/louiecerv/nvapp/internal/completion"
	"github.com/louiecerv/nvapp/internal/prompt"
)

func Models(models []completion.ModelInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models)
	}
}

type optionsResponse struct {
	Platforms []string `json:"platforms"`
	Tasks     []string `json:"tasks"`
}

// Options lists the accepted platform and task values.
func Options() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, optionsResponse{
			Platforms: prompt.Platforms(),
			Tasks:     prompt.Tasks(),
		})
	}
}
