package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/etnz/returns"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError sends an error response with the given status code
func RespondError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	RespondJSON(w, status, response)
}

// statusOf returns the status code for an engine error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, returns.ErrInsufficientData),
		errors.Is(err, returns.ErrXIRRDivergence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, returns.ErrInvalidTransaction),
		errors.Is(err, returns.ErrCurrencyMismatch):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
