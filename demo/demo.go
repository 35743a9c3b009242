// Package demo registers a small sample suite, useful for exercising the
// engine end to end from the command line.
package demo

import (
	"time"

	"github.com/unitlite/unitlite/assert"
	"github.com/unitlite/unitlite/match"
	"github.com/unitlite/unitlite/registry"
)

// Register adds the sample suite to the given registry.
func Register(reg *registry.Registry) error {
	suite := map[string]registry.TestFunc{
		"TestBasicMath": func(t *assert.T) {
			t.AssertThat(2+2, match.IsEqualTo(4))
			t.AssertThat(10, match.IsGreaterThan(3))
			t.AssertThat(3.14159, match.IsApproximately(3.14, 0.01))
		},
		"TestStrings": func(t *assert.T) {
			t.AssertThat("hello world", match.Contains("lo wo"))
			t.AssertThat("hello world", match.StartsWith("hello"))
			t.AssertThat("hello world", match.EndsWith("world"))
		},
		"TestContainers": func(t *assert.T) {
			primes := []int{2, 3, 5, 7, 11}
			t.AssertThat(primes, match.HasItem(7))
			t.AssertThat(primes, match.HasItems(2, 11))
			t.AssertThat(primes, match.MatchesSequence([]int{2, 3, 5, 7, 11}))
			t.AssertThat(map[string]int{"a": 1}, match.HasEntry("a", 1))
		},
		"TestCombinators": func(t *assert.T) {
			t.AssertThat(5, match.AllOf(match.IsGreaterThan(0), match.IsLessThan(10)))
			t.AssertThat("x", match.AnyOf(match.IsEqualTo("x"), match.IsEqualTo("y")))
			t.AssertThat(5, match.Not(match.IsEqualTo(6)))
		},
		"TestExpectedFailure": func(t *assert.T) {
			t.ExpectFailure()
			t.AssertThat(1, match.IsEqualTo(2))
		},
		"TestCallLog": func(t *assert.T) {
			t.LogCall("open", "demo.txt")
			t.LogCall("close")
			t.AssertThat(t.CallLog(), match.MatchesSequence([]string{
				"open\t\"demo.txt\"",
				"close",
			}))
		},
	}

	for name, body := range suite {
		if err := reg.Register(name, body); err != nil {
			return err
		}
	}
	return reg.RegisterTimed("TestQuickSleep", 5*time.Second, func(t *assert.T) {
		time.Sleep(10 * time.Millisecond)
	})
}

// RegisterFailing adds deliberately failing tests, for demonstrating
// diagnostics and exit codes.
func RegisterFailing(reg *registry.Registry) error {
	if err := reg.Register("TestDeliberateFailure", func(t *assert.T) {
		t.AssertThat(2+2, match.IsEqualTo(5))
	}); err != nil {
		return err
	}
	return reg.RegisterTimed("TestDeliberateTimeout", 100*time.Millisecond, func(t *assert.T) {
		select {}
	})
}
