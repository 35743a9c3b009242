package main

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"

	unitlite "github.com/unitlite/unitlite"
	"github.com/unitlite/unitlite/exitcodes"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, exitcodes.Success},
		{"runtime error", unitlite.NewRuntimeError(errors.New("bad config")), exitcodes.RuntimeErr},
		{"test failure", unitlite.NewTestFailureError("2 tests failed"), exitcodes.TestFailure},
		{"unrecognized error", errors.New("something else"), exitcodes.TestFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, log.LevelDebug, levelFromString("debug"))
	assert.Equal(t, log.LevelCrit, levelFromString("crit"))
	// anything unrecognized falls back to info
	assert.Equal(t, log.LevelInfo, levelFromString("loud"))
}
