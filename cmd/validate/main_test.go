package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		case "/gone":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		ep      endpoint
		wantErr bool
	}{
		{"json match", endpoint{path: "/ok", method: "GET", contentType: "application/json", contains: []string{`"ok"`}}, false},
		{"missing content", endpoint{path: "/ok", method: "GET", contentType: "application/json", contains: []string{"nope"}}, true},
		{"wrong content type", endpoint{path: "/ok", method: "GET", contentType: "application/pdf"}, true},
		{"expected 204", endpoint{path: "/gone", method: "DELETE", status: http.StatusNoContent}, false},
		{"unexpected 404", endpoint{path: "/missing", method: "GET"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validateEndpoint(srv.Client(), srv.URL, tt.ep)
			if (r.err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", r.err, tt.wantErr)
			}
		})
	}
}
