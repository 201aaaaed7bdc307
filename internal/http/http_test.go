package http

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQueryFloat(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?principal=1000&rate=abc&inf=Inf", nil)

	if v, err := QueryFloat(r, "principal", 0, true); err != nil || v != 1000 {
		t.Errorf("principal = %v, %v", v, err)
	}
	if _, err := QueryFloat(r, "rate", 0, true); err == nil {
		t.Error("expected error for non-numeric rate")
	}
	if _, err := QueryFloat(r, "inf", 0, true); err == nil {
		t.Error("expected error for infinite value")
	}
	if _, err := QueryFloat(r, "years", 0, true); err == nil {
		t.Error("expected error for missing required parameter")
	}
	if v, err := QueryFloat(r, "years", 30, false); err != nil || v != 30 {
		t.Errorf("default years = %v, %v", v, err)
	}
}

func TestQueryIntAndBool(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?compounds=4&schedule=1&bad=x", nil)

	if v, _ := QueryInt(r, "compounds", 12); v != 4 {
		t.Errorf("compounds = %d, want 4", v)
	}
	if v, _ := QueryInt(r, "missing", 12); v != 12 {
		t.Errorf("default = %d, want 12", v)
	}
	if _, err := QueryInt(r, "bad", 12); err == nil {
		t.Error("expected error for non-integer")
	}
	if !QueryBool(r, "schedule") || QueryBool(r, "missing") {
		t.Error("QueryBool mismatch")
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst map[string]string

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"a":"1"}`))
	if err := DecodeJSON(w, r, &dst); err != nil || dst["a"] != "1" {
		t.Errorf("DecodeJSON = %v, %v", dst, err)
	}

	r = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(""))
	if err := DecodeJSON(w, r, &dst); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, "bad input", http.StatusBadRequest)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"bad input"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]float64{"amount": math.Inf(1)})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("body = %q, want an error body", rec.Body.String())
	}
}
