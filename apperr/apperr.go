// Package apperr holds the error kinds shared by the services and their
// mapping onto HTTP responses.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every rule an input broke, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// OrNil returns nil when nothing was added, so callers can write
// `return v.OrNil()` at the end of a validation pass.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

type PolicyError struct {
	Action string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s is not allowed: %s", e.Action, e.Reason)
}

// ExternalServiceError wraps a failure of a collaborator (database, broker,
// another service).
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func External(service, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExternalServiceError{Service: service, Op: op, Err: err}
}

// StatusCode picks the HTTP status for err. Domain packages wrap
// ErrNotFound and ErrConflict in their own sentinels.
func StatusCode(err error) int {
	var validation *ValidationError
	var policy *PolicyError
	var external *ExternalServiceError
	var coded interface{ HTTPStatus() int }

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &policy):
		return http.StatusForbidden
	case errors.As(err, &coded):
		return coded.HTTPStatus()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &external):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error      string      `json:"error"`
	Violations []Violation `json:"violations,omitempty"`
}

// Write renders err as a JSON body with the status from StatusCode.
func Write(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var validation *ValidationError
	if errors.As(err, &validation) {
		body.Violations = validation.Violations
	}
	WriteJSON(w, StatusCode(err), body)
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
