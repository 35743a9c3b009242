// Package assert is the in-test surface of unitlite. A test body receives a
// *T handle and raises failures through it; the runner catches raised
// failures and turns them into test results.
package assert

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/unitlite/unitlite/match"
)

// Failure carries a single raised assertion failure from the point of the
// assertion to the runner. It is delivered by panic and recovered by the
// runner; a Failure escaping any other way is a bug in the caller.
type Failure struct {
	Description string
	Explanation string
	File        string
	Line        int
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:\t%s", f.File, f.Line, f.Description)
	if f.Explanation != "" {
		b.WriteString("\n\t")
		b.WriteString(f.Explanation)
	}
	return b.String()
}

// T is the handle passed to every test body. It records per-test state the
// body can set (expectation inversion, the call log) and is the only channel
// through which a body reports failure. A fresh T is created for every
// execution, so state never leaks between tests.
type T struct {
	name string

	mu           sync.Mutex
	expectToFail bool
	callLog      []string
}

// NewT returns a fresh handle for one execution of the named test.
func NewT(name string) *T {
	return &T{name: name}
}

// Name returns the registered name of the running test.
func (t *T) Name() string { return t.name }

// ExpectFailure inverts the verdict of the current execution: an assertion
// failure becomes a pass, and running to completion becomes a failure.
func (t *T) ExpectFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expectToFail = true
}

// ExpectedToFail reports whether the body requested verdict inversion. The
// runner reads it after the body finishes, possibly from another goroutine.
func (t *T) ExpectedToFail() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expectToFail
}

// Check evaluates a matcher result under the given description and raises a
// Failure when it did not match. All assertion sugar funnels through here.
func (t *T) Check(r match.Result, description string) {
	if r.Matched {
		return
	}
	file, line := callSite()
	panic(&Failure{
		Description: description,
		Explanation: r.FailExplanation,
		File:        file,
		Line:        line,
	})
}

// AssertThat evaluates a matcher against a subject, raising on mismatch.
func (t *T) AssertThat(subject any, m match.Matcher) {
	t.Check(m.Eval(subject), "assertThat("+match.Repr(subject)+")")
}

// AssertTrue raises unless the condition holds.
func (t *T) AssertTrue(condition bool) {
	t.Check(match.IsEqualTo(true).Eval(condition), "assertTrue")
}

// AssertFalse raises if the condition holds.
func (t *T) AssertFalse(condition bool) {
	t.Check(match.IsEqualTo(false).Eval(condition), "assertFalse")
}

// AssertEqual raises unless observed equals expected.
func (t *T) AssertEqual(expected, observed any) {
	t.Check(match.IsEqualTo(expected).Eval(observed), "assertEqual")
}

// AssertNotEqual raises if observed equals expected.
func (t *T) AssertNotEqual(expected, observed any) {
	t.Check(match.IsNotEqualTo(expected).Eval(observed), "assertNotEqual")
}

// AssertNil raises unless the value is nil.
func (t *T) AssertNil(v any) {
	t.Check(match.IsNil().Eval(v), "assertNil")
}

// AssertNotNil raises if the value is nil.
func (t *T) AssertNotNil(v any) {
	t.Check(match.IsNotNil().Eval(v), "assertNotNil")
}

// Fail raises unconditionally with the given message.
func (t *T) Fail(message string) {
	t.Check(match.Result{FailExplanation: message}, "fail")
}

// Succeed records an explicit success. It raises nothing and exists so a
// branch can state that reaching it is the expected outcome.
func (t *T) Succeed() {}

// LogCall appends one entry to the call log: the call name followed by the
// rendered arguments, tab-separated. Stubs use it so tests can assert on the
// sequence of interactions they received.
func (t *T) LogCall(name string, args ...any) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, match.Repr(a))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callLog = append(t.callLog, strings.Join(parts, "\t"))
}

// CallLog returns a copy of the recorded call log in call order.
func (t *T) CallLog() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.callLog))
	copy(out, t.callLog)
	return out
}

// ClearCallLog discards the recorded call log.
func (t *T) ClearCallLog() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callLog = nil
}

// thisFile is the source file holding the assertion machinery; callSite
// skips frames from it.
var thisFile string

func init() {
	_, thisFile, _, _ = runtime.Caller(0)
}

// callSite walks up the stack to the first frame outside this file, so a
// Failure reports the line of the assertion in the test body rather than a
// line inside the assertion machinery.
func callSite() (string, int) {
	for skip := 2; skip < 10; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if file != thisFile {
			return file, line
		}
	}
	return "unknown", 0
}
