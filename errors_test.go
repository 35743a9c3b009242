package unitlite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError(t *testing.T) {
	inner := errors.New("config missing")
	err := NewRuntimeError(inner)

	assert.Equal(t, "runtime error: config missing", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsRuntimeError(err))
	assert.True(t, IsRuntimeError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsRuntimeError(inner))
	assert.False(t, IsRuntimeError(nil))
}

func TestTestFailureError(t *testing.T) {
	err := NewTestFailureError("2 tests failed")

	assert.Equal(t, "test failure: 2 tests failed", err.Error())
	assert.True(t, IsTestFailureError(err))
	assert.True(t, IsTestFailureError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsTestFailureError(errors.New("other")))
	assert.False(t, IsTestFailureError(nil))
}
