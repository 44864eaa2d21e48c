package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for error-category checks via errors.Is.
var (
	// ErrUnauthorized marks a 401 from the service.
	ErrUnauthorized = errors.New("unauthorized")
)

// Generic user-facing fallbacks, used when the service supplies no message
// of its own.
const (
	FallbackMessage = "An error occurred. Please try again."
	ConnectMessage  = "Couldn't connect to the service. Please try again."
)

// Error is a rejection from the analysis service. It carries the HTTP
// status and whatever message the service body provided.
type Error struct {
	Status  int
	Message string
	// Fields holds field-level validation errors keyed by field name,
	// as returned by registration and similar form endpoints.
	Fields map[string][]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service returned %d", e.Status)
}

// Unwrap maps a 401 onto ErrUnauthorized so callers can use errors.Is.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// FieldError returns the first error recorded for the named field, or "".
func (e *Error) FieldError(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// parseError builds an *Error from a non-2xx response body. The service
// uses three body shapes: {"error": "..."}, {"detail": "..."}, and
// field-level maps like {"username": ["taken"]}.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for _, key := range []string{"error", "detail", "message"} {
		var msg string
		if v, ok := raw[key]; ok && json.Unmarshal(v, &msg) == nil && msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}

	// Fall back to a field-error map.
	fields := make(map[string][]string)
	for key, v := range raw {
		var msgs []string
		if json.Unmarshal(v, &msgs) == nil && len(msgs) > 0 {
			fields[key] = msgs
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
		for _, key := range []string{"username", "email", "password", "non_field_errors"} {
			if msgs := fields[key]; len(msgs) > 0 {
				apiErr.Message = msgs[0]
				break
			}
		}
		if apiErr.Message == "" {
			for _, msgs := range fields {
				apiErr.Message = msgs[0]
				break
			}
		}
	}

	return apiErr
}

// UserMessage derives a user-facing message from an error: the service's
// own message when present, a generic connect message for transport
// failures, and a generic fallback otherwise. Nil yields "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return FallbackMessage
	}
	return ConnectMessage
}
