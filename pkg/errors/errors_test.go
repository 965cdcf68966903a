package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause, "failed to save verification record")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsCode(err, ErrCodeStorage))
	assert.False(t, IsCode(err, ErrCodeDelivery))
	assert.Equal(t, "[STORAGE_ERROR] failed to save verification record: connection refused", err.Error())

	wrapped := fmt.Errorf("issue: %w", err)
	assert.True(t, IsCode(wrapped, ErrCodeStorage))

	var e *Error
	require.True(t, errors.As(wrapped, &e))
	assert.Equal(t, "failed to save verification record", e.Message)
}

func TestErrorWithoutCause(t *testing.T) {
	err := Validation("Email is required")
	assert.Equal(t, "[VALIDATION_FAILED] Email is required", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestIsCodeOnPlainError(t *testing.T) {
	assert.False(t, IsCode(errors.New("boom"), ErrCodeInternal))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestHTTPStatusCode(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"Validation", Validation("Email is required"), http.StatusBadRequest},
		{"Storage", Storage(cause, "x"), http.StatusInternalServerError},
		{"Delivery", Delivery(cause, "x"), http.StatusInternalServerError},
		{"Internal", InternalWrap(cause, "x"), http.StatusInternalServerError},
		{"Unknown", &Error{Code: ErrorCode("UNKNOWN")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatusCode())
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := Validation("Email is required").WithDetail("field", "email").WithDetail("reason", "empty")
	assert.Equal(t, map[string]string{"field": "email", "reason": "empty"}, err.Details)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatusCode())
}
