package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend. Message carries the
// server-provided {message} verbatim so the UI can display it as-is.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether err is a 401 from the backend, meaning the
// session credential is no longer valid and must be dropped.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// parseErrorResponse converts a non-2xx body into an *APIError. The backend
// answers failures with {"message": "..."}; anything else falls back to the
// HTTP status text.
func parseErrorResponse(statusCode int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &APIError{StatusCode: statusCode, Message: envelope.Message}
	}
	return &APIError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
}
