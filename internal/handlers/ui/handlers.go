package ui

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httputil "financetracker/internal/http"
	"financetracker/internal/models"
	"financetracker/internal/services/ui"
)

var state *ui.State

// Initialize sets up the ui package with required dependencies
func Initialize(s *ui.State) {
	state = s
}

// Routes mounts the UI state endpoints under /api/ui
func Routes(r chi.Router) {
	r.Get("/theme", HandleGetTheme)
	r.Put("/theme", HandleSetTheme)
	r.Post("/theme/toggle", HandleToggleTheme)
	r.Get("/notifications", HandleListNotifications)
	r.Post("/notifications", HandleNotify)
	r.Delete("/notifications/{id}", HandleDismiss)
}

func themeResponse(w http.ResponseWriter, t models.Theme) {
	httputil.WriteJSON(w, http.StatusOK, map[string]models.Theme{"theme": t})
}

func HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	themeResponse(w, state.Theme())
}

func HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme models.Theme `json:"theme"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := state.SetTheme(req.Theme); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ui.ErrInvalidTheme) {
			status = http.StatusBadRequest
		}
		httputil.ErrorResponse(w, err.Error(), status)
		return
	}
	themeResponse(w, req.Theme)
}

func HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	next, err := state.ToggleTheme()
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	themeResponse(w, next)
}

func HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]models.Notification{
		"notifications": state.Active(),
	})
}

// HandleNotify queues a toast. duration_ms of 0 uses the configured default.
func HandleNotify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message    string                  `json:"message"`
		Kind       models.NotificationKind `json:"kind"`
		DurationMS int64                   `json:"duration_ms"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		httputil.ErrorResponse(w, "message is required", http.StatusBadRequest)
		return
	}

	n := state.Notify(req.Message, req.Kind, time.Duration(req.DurationMS)*time.Millisecond)
	httputil.WriteJSON(w, http.StatusCreated, n)
}

func HandleDismiss(w http.ResponseWriter, r *http.Request) {
	if !state.Dismiss(chi.URLParam(r, "id")) {
		httputil.ErrorResponse(w, "notification not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
