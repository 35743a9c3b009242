package match

import "strings"

type stringContainsMatcher struct {
	right string
}

// Contains matches strings containing the given substring.
func Contains(sub string) Matcher { return stringContainsMatcher{sub} }

func (m stringContainsMatcher) Eval(subject any) Result {
	s, ok := toString(subject)
	if !ok {
		return notAString(subject)
	}
	pos := strings.Index(s, m.right)
	return Result{
		Matched: pos >= 0,
		PassExplanation: "Found " + Repr(m.right) + " starting in position " +
			Repr(pos) + " of " + Repr(s),
		FailExplanation: "Within " + Repr(s) + ", cannot find " + Repr(m.right),
	}
}

type stringStartsWithMatcher struct {
	right string
}

// StartsWith matches strings beginning with the given prefix.
func StartsWith(prefix string) Matcher { return stringStartsWithMatcher{prefix} }

// BeginsWith is shorthand for StartsWith.
func BeginsWith(prefix string) Matcher { return StartsWith(prefix) }

func (m stringStartsWithMatcher) Eval(subject any) Result {
	s, ok := toString(subject)
	if !ok {
		return notAString(subject)
	}
	return Result{
		Matched:         strings.HasPrefix(s, m.right),
		PassExplanation: Repr(s) + " begins with " + Repr(m.right),
		FailExplanation: Repr(s) + " does not begin with " + Repr(m.right),
	}
}

type stringEndsWithMatcher struct {
	right string
}

// EndsWith matches strings ending with the given suffix.
func EndsWith(suffix string) Matcher { return stringEndsWithMatcher{suffix} }

func (m stringEndsWithMatcher) Eval(subject any) Result {
	s, ok := toString(subject)
	if !ok {
		return notAString(subject)
	}
	return Result{
		Matched:         strings.HasSuffix(s, m.right),
		PassExplanation: Repr(s) + " ends with " + Repr(m.right),
		FailExplanation: Repr(s) + " does not end with " + Repr(m.right),
	}
}
