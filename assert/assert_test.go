package assert

import (
	"strings"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitlite/unitlite/match"
)

func capture(fn func()) (f *Failure) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			f, ok = r.(*Failure)
			if !ok {
				panic(r)
			}
		}
	}()
	fn()
	return nil
}

func TestCheckPassIsSilent(t *testing.T) {
	h := NewT("silent")
	f := capture(func() {
		h.Check(match.Result{Matched: true}, "assertTrue")
	})
	tassert.Nil(t, f)
}

func TestCheckFailureRaises(t *testing.T) {
	h := NewT("raises")
	f := capture(func() {
		h.AssertThat(6, match.IsEqualTo(5))
	})
	require.NotNil(t, f)
	tassert.Equal(t, "assertThat(6)", f.Description)
	tassert.Equal(t, "Expected: 5\n\tObserved: 6", f.Explanation)
}

func TestFailureReportsCallSite(t *testing.T) {
	h := NewT("callsite")
	f := capture(func() {
		h.AssertTrue(false)
	})
	require.NotNil(t, f)
	tassert.True(t, strings.HasSuffix(f.File, "assert_test.go"), "got %q", f.File)
	tassert.Greater(t, f.Line, 0)
}

func TestFailureErrorFormat(t *testing.T) {
	f := &Failure{
		Description: "assertEqual",
		Explanation: "Expected: 1\n\tObserved: 2",
		File:        "calc_test.go",
		Line:        12,
	}
	tassert.Equal(t, "calc_test.go:12:\tassertEqual\n\tExpected: 1\n\tObserved: 2", f.Error())
}

func TestSugarAssertions(t *testing.T) {
	h := NewT("sugar")

	tassert.Nil(t, capture(func() { h.AssertTrue(true) }))
	tassert.NotNil(t, capture(func() { h.AssertTrue(false) }))

	tassert.Nil(t, capture(func() { h.AssertFalse(false) }))
	tassert.NotNil(t, capture(func() { h.AssertFalse(true) }))

	tassert.Nil(t, capture(func() { h.AssertEqual(3, 3) }))
	tassert.NotNil(t, capture(func() { h.AssertEqual(3, 4) }))

	tassert.Nil(t, capture(func() { h.AssertNotEqual(3, 4) }))
	tassert.NotNil(t, capture(func() { h.AssertNotEqual(3, 3) }))

	tassert.Nil(t, capture(func() { h.AssertNil(nil) }))
	tassert.NotNil(t, capture(func() { h.AssertNil(3) }))

	tassert.Nil(t, capture(func() { h.AssertNotNil(3) }))
	tassert.NotNil(t, capture(func() { h.AssertNotNil(nil) }))

	tassert.Nil(t, capture(func() { h.Succeed() }))
}

func TestFailRaisesWithMessage(t *testing.T) {
	h := NewT("fail")
	f := capture(func() { h.Fail("unreachable branch taken") })
	require.NotNil(t, f)
	tassert.Equal(t, "unreachable branch taken", f.Explanation)
}

func TestExpectFailure(t *testing.T) {
	h := NewT("xfail")
	tassert.False(t, h.ExpectedToFail())
	h.ExpectFailure()
	tassert.True(t, h.ExpectedToFail())
}

func TestCallLog(t *testing.T) {
	h := NewT("calls")
	tassert.Empty(t, h.CallLog())

	h.LogCall("open", "file.txt")
	h.LogCall("write", "file.txt", 42)
	h.LogCall("close")

	tassert.Equal(t, []string{
		"open\t\"file.txt\"",
		"write\t\"file.txt\"\t42",
		"close",
	}, h.CallLog())

	log := h.CallLog()
	log[0] = "mutated"
	tassert.Equal(t, "open\t\"file.txt\"", h.CallLog()[0])

	h.ClearCallLog()
	tassert.Empty(t, h.CallLog())
}
