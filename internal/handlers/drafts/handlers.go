package drafts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "financetracker/internal/http"
	"financetracker/internal/models"
	"financetracker/internal/services/drafts"
)

var store *drafts.Store

// Initialize sets up the drafts package with required dependencies
func Initialize(s *drafts.Store) {
	store = s
}

// Routes mounts the draft endpoints under /api/drafts
func Routes(r chi.Router) {
	r.Get("/{formID}", HandleGet)
	r.Put("/{formID}", HandleSave)
	r.Post("/{formID}/restore", HandleRestore)
	r.Delete("/{formID}", HandleClear)
}

type outcomeResponse struct {
	FormID   string            `json:"form_id"`
	Outcome  drafts.Kind       `json:"outcome"`
	Restored int               `json:"restored,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// statusFor maps failure outcomes to HTTP status codes
func statusFor(out drafts.Outcome) int {
	switch out.Kind {
	case drafts.Skipped:
		return http.StatusBadRequest
	case drafts.StorageUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func respond(formID string, out drafts.Outcome, fields map[string]string) outcomeResponse {
	resp := outcomeResponse{FormID: formID, Outcome: out.Kind, Restored: out.Restored, Fields: fields}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	return resp
}

// HandleSave stores the posted field map as the form's draft
func HandleSave(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	var fields models.FieldMap
	if err := httputil.DecodeJSON(w, r, &fields); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fields == nil {
		fields = models.FieldMap{}
	}

	out := store.Save(formID, fields)
	httputil.WriteJSON(w, statusFor(out), respond(formID, out, nil))
}

// HandleGet returns the stored draft without applying it
func HandleGet(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	values, out := store.Peek(formID)
	status := statusFor(out)
	if out.Kind == drafts.NoDraft || out.Kind == drafts.CorruptData {
		status = http.StatusNotFound
	}
	httputil.WriteJSON(w, status, respond(formID, out, values))
}

// HandleRestore applies the draft to the posted live form and returns the
// form's resulting values. Failures return the form unchanged.
func HandleRestore(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	var live models.FieldMap
	if err := httputil.DecodeJSON(w, r, &live); err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if live == nil {
		live = models.FieldMap{}
	}

	out := store.Load(formID, live)
	status := http.StatusOK
	if out.Kind == drafts.Skipped {
		status = http.StatusBadRequest
	}
	httputil.WriteJSON(w, status, respond(formID, out, live))
}

// HandleClear deletes the draft, typically after a successful submit
func HandleClear(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	out := store.Clear(formID)
	if status := statusFor(out); status != http.StatusOK {
		httputil.WriteJSON(w, status, respond(formID, out, nil))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
