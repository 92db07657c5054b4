package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teapotError struct{}

func (teapotError) Error() string   { return "teapot" }
func (teapotError) HTTPStatus() int { return http.StatusTeapot }

func TestStatusCode(t *testing.T) {
	validation := &ValidationError{}
	validation.Add("name", "required")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: validation, want: http.StatusBadRequest},
		{name: "policy", err: &PolicyError{Action: "checkout", Reason: "admin"}, want: http.StatusForbidden},
		{name: "wrapped not found", err: fmt.Errorf("dish 1: %w", ErrNotFound), want: http.StatusNotFound},
		{name: "conflict", err: ErrConflict, want: http.StatusConflict},
		{name: "external", err: External("mongo", "insert", errors.New("timeout")), want: http.StatusBadGateway},
		{name: "self coded", err: fmt.Errorf("wrap: %w", teapotError{}), want: http.StatusTeapot},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, StatusCode(testCase.err))
		})
	}
}

func TestValidationError_OrNil(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("phone", "invalid")
	v.Add("name", "required")
	err := v.OrNil()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone: invalid")
	assert.Contains(t, err.Error(), "name: required")
}

func TestExternal_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := External("catalog-svc", "get cart", cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, External("x", "y", nil))
}

func TestWrite_IncludesViolations(t *testing.T) {
	v := &ValidationError{}
	v.Add("name", "required")
	v.Add("phone", "must match +380XXXXXXXXX")

	rr := httptest.NewRecorder()
	Write(rr, v)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Error      string      `json:"error"`
		Violations []Violation `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Len(t, body.Violations, 2)
	assert.Equal(t, "phone", body.Violations[1].Field)
}
