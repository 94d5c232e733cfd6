// Package httputil provides JSON response helpers and the HTTP client used
// for service-to-service calls.
package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/fitnessbro/platform/internal/errors"
)

// ErrorResponse is the wire shape of every error payload.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteError maps an error onto the taxonomy and writes it. Unknown errors
// become opaque 500s so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	se := apperrors.GetServiceError(err)
	if se == nil {
		se = apperrors.Internal("internal error", err)
	}
	WriteJSON(w, se.HTTPStatus, ErrorResponse{
		Code:    string(se.Code),
		Message: se.Message,
		Details: se.Details,
	})
}

// DecodeJSONBody decodes a JSON request body into target.
func DecodeJSONBody(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		return apperrors.InvalidInput("invalid JSON body")
	}
	return nil
}
