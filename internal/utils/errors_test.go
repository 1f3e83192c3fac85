package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"validation", NewValidationError("bad input %d", 7), ErrorKindValidation},
		{"conflict", NewConflictError("already %s", "done"), ErrorKindConflict},
		{"external", NewExternalError("provider down", errors.New("timeout")), ErrorKindExternal},
		{"locked", NewLockedError("locked out"), ErrorKindLocked},
		{"not found", NewNotFoundError("booking"), ErrorKindNotFound},
		{"unauthorized", NewUnauthorizedError("nope"), ErrorKindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.True(t, IsKind(tt.err, tt.kind))
		})
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := NewNotFoundError("driver")
	assert.Equal(t, "driver not found", err.Message)
}

func TestKindOfWrappedError(t *testing.T) {
	inner := NewConflictError("booking is no longer pending")
	wrapped := fmt.Errorf("accept booking: %w", inner)
	assert.Equal(t, ErrorKindConflict, KindOf(wrapped))
}

func TestKindOfUntypedErrorIsExternal(t *testing.T) {
	assert.Equal(t, ErrorKindExternal, KindOf(errors.New("socket closed")))
}

func TestExternalErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExternalError("payment provider unavailable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
