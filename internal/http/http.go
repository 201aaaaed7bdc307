package http

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

var logger = zerolog.Nop()

// SetLogger sets the logger used for error responses
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "http").Logger()
}

// WriteJSON encodes v with the given status. If v cannot be encoded the
// client gets a 500 with an error body instead.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("encode response")
		status = http.StatusInternalServerError
		data = []byte(`{"error":"could not encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// ErrorResponse sends a JSON error body
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	ev := logger.Warn()
	if statusCode >= 500 {
		ev = logger.Error()
	}
	ev.Int("status", statusCode).Msg(message)
	WriteJSON(w, statusCode, map[string]string{"error": message})
}

// DecodeJSON reads a JSON request body into v
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// QueryFloat parses a float query parameter. Missing parameters use def;
// required ones without a default return an error.
func QueryFloat(r *http.Request, name string, def float64, required bool) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("missing parameter %q", name)
		}
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parameter %q must be a number", name)
	}
	return v, nil
}

// QueryInt parses an integer query parameter, using def when it is missing
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer", name)
	}
	return v, nil
}

// QueryBool reports whether a flag parameter is set to 1 or true
func QueryBool(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "1" || v == "true"
}
