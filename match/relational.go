package match

type equalToMatcher struct {
	right any
}

// IsEqualTo matches subjects equal to the given value.
func IsEqualTo(right any) Matcher { return equalToMatcher{right} }

// Is is shorthand for IsEqualTo.
func Is(right any) Matcher { return IsEqualTo(right) }

func (m equalToMatcher) Eval(left any) Result {
	return Result{
		Matched:         valuesEqual(left, m.right),
		PassExplanation: "Both values were: " + Repr(left),
		FailExplanation: "Expected: " + Repr(m.right) + "\n\tObserved: " + Repr(left),
	}
}

type notEqualToMatcher struct {
	right any
}

// IsNotEqualTo matches subjects different from the given value.
func IsNotEqualTo(right any) Matcher { return notEqualToMatcher{right} }

// IsNot is shorthand for IsNotEqualTo.
func IsNot(right any) Matcher { return IsNotEqualTo(right) }

func (m notEqualToMatcher) Eval(left any) Result {
	return Result{
		Matched:         !valuesEqual(left, m.right),
		PassExplanation: "Expected: " + Repr(m.right) + "\n\tObserved: " + Repr(left),
		FailExplanation: "Both values were: " + Repr(left),
	}
}

type approxMatcher struct {
	right any
	delta any
}

// IsApproximately matches numeric subjects within delta of the target.
func IsApproximately(target, delta any) Matcher { return approxMatcher{target, delta} }

func (m approxMatcher) Eval(left any) Result {
	lv, lok := numericValue(left)
	rv, rok := numericValue(m.right)
	dv, dok := numericValue(m.delta)
	if !lok || !rok || !dok {
		return Result{
			Matched:         false,
			FailExplanation: "cannot compare " + Repr(left) + " and " + Repr(m.right) + " numerically",
		}
	}
	lo, hi := rv-dv, rv+dv
	pass := Repr(left) + " is between " + Repr(lo) + " and " + Repr(hi)
	if lv < lo || lv > hi {
		return Result{
			Matched:         false,
			PassExplanation: pass,
			FailExplanation: Repr(left) + " is outside the range " + Repr(lo) + " .. " + Repr(hi),
		}
	}
	return Result{Matched: true, PassExplanation: pass}
}

type orderingMatcher struct {
	right   any
	matches func(cmp int) bool
	passTxt string
	failTxt string
}

func (m orderingMatcher) Eval(left any) Result {
	cmp, ok := compareValues(left, m.right)
	if !ok {
		return Result{
			Matched:         false,
			FailExplanation: "values " + Repr(left) + " and " + Repr(m.right) + " are not ordered",
		}
	}
	return Result{
		Matched:         m.matches(cmp),
		PassExplanation: Repr(left) + " " + m.passTxt + " " + Repr(m.right),
		FailExplanation: Repr(left) + " " + m.failTxt + " " + Repr(m.right),
	}
}

// IsLessThan matches subjects strictly below the given value.
func IsLessThan(right any) Matcher {
	return orderingMatcher{right, func(c int) bool { return c < 0 },
		"is less than", "is not less than"}
}

// IsGreaterThan matches subjects strictly above the given value.
func IsGreaterThan(right any) Matcher {
	return orderingMatcher{right, func(c int) bool { return c > 0 },
		"is greater than", "is not greater than"}
}

// IsLessThanOrEqualTo matches subjects at or below the given value.
func IsLessThanOrEqualTo(right any) Matcher {
	return orderingMatcher{right, func(c int) bool { return c <= 0 },
		"is less than or equal to", "is greater than"}
}

// IsGreaterThanOrEqualTo matches subjects at or above the given value.
func IsGreaterThanOrEqualTo(right any) Matcher {
	return orderingMatcher{right, func(c int) bool { return c >= 0 },
		"is greater than or equal to", "is less than"}
}

type oneOfMatcher struct {
	candidates []any
}

// IsOneOf matches subjects equal to any of the listed values. The diagnostic
// lists the full candidate set regardless of outcome.
func IsOneOf(candidates ...any) Matcher { return oneOfMatcher{candidates} }

func (m oneOfMatcher) Eval(left any) Result {
	found := "Found " + Repr(left) + " in " + Repr(m.candidates)
	notFound := "Could not find " + Repr(left) + " in " + Repr(m.candidates)
	for _, c := range m.candidates {
		if valuesEqual(left, c) {
			return Result{Matched: true, PassExplanation: found, FailExplanation: notFound}
		}
	}
	return Result{Matched: false, PassExplanation: found, FailExplanation: notFound}
}
