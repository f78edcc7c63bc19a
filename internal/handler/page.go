package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/louiecerv/nvapp/internal/assistant"
	"github.com/louiecerv/nvapp/internal/ui"
)

// Page serves the form at "/". A POST runs the assistant and re-renders the
// form with the generated prompt and the reply. Backend failures show up as
// reply text, like any other answer.
func Page(a *assistant.Assistant, form ui.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		view := ui.View{
			Form:     form,
			Selected: map[string]string{ui.FieldModel: a.DefaultModel()},
			Values:   map[string]string{},
		}
		code := http.StatusOK

		switch r.Method {
		case http.MethodGet, http.MethodHead:
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "invalid form body", http.StatusBadRequest)
				return
			}
			req := assistant.Request{
				Platform: r.PostForm.Get(ui.FieldPlatform),
				Task:     r.PostForm.Get(ui.FieldTask),
				ModelID:  r.PostForm.Get(ui.FieldModel),
			}
			view.Selected[ui.FieldPlatform] = req.Platform
			view.Selected[ui.FieldTask] = req.Task
			if req.ModelID != "" {
				view.Selected[ui.FieldModel] = req.ModelID
			}

			res, err := a.Run(r.Context(), req)
			if err != nil && !errors.Is(err, assistant.ErrCompletion) {
				view.Error = err.Error()
				code = http.StatusBadRequest
			}
			view.Values[ui.FieldPrompt] = res.Prompt
			view.Values[ui.FieldResponse] = res.Response
		default:
			w.Header().Set("Allow", "GET, HEAD, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var buf bytes.Buffer
		if err := ui.Render(&buf, view); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("render page")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		buf.WriteTo(w)
	}
}
