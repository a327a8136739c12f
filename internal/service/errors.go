package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("document not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAlreadySigned      = errors.New("document already signed by this user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// FieldErrors maps input field names to human-readable messages, mirroring
// the wire shape of registration and upload validation failures:
//
//	{"password_confirm": ["Passwords do not match"]}
//
// Handlers serialize it through Body as a 400 response.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Body returns the response form of the errors. Per-field messages are lists,
// but a lone request-level "detail" message stays a bare string:
//
//	{"detail": "Fill all fields"}
func (e FieldErrors) Body() map[string]any {
	out := make(map[string]any, len(e))
	for field, msgs := range e {
		if field == "detail" && len(msgs) == 1 {
			out[field] = msgs[0]
			continue
		}
		out[field] = msgs
	}
	return out
}

// Error implements the error interface with a deterministic-enough summary
// for logs; the structured map is what callers should use.
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
