package match

type notMatcher struct {
	inner Matcher
}

// Not inverts the inner matcher, swapping its explanations along with its
// verdict.
func Not(inner Matcher) Matcher { return notMatcher{inner} }

func (m notMatcher) Eval(subject any) Result {
	r := m.inner.Eval(subject)
	return Result{
		Matched:         !r.Matched,
		PassExplanation: r.FailExplanation,
		FailExplanation: r.PassExplanation,
	}
}

type allOfMatcher struct {
	conditions []Matcher
}

// AllOf matches when every condition matches. Evaluation stops at the first
// failing condition and its explanation becomes the diagnostic.
func AllOf(conditions ...Matcher) Matcher { return allOfMatcher{conditions} }

func (m allOfMatcher) Eval(subject any) Result {
	for _, c := range m.conditions {
		if r := c.Eval(subject); !r.Matched {
			return Result{
				Matched:         false,
				PassExplanation: "All of the conditions were true",
				FailExplanation: r.FailExplanation,
			}
		}
	}
	return Result{Matched: true, PassExplanation: "All of the conditions were true"}
}

type anyOfMatcher struct {
	conditions []Matcher
}

// AnyOf matches when at least one condition matches. Evaluation stops at the
// first passing condition and its explanation becomes the diagnostic.
func AnyOf(conditions ...Matcher) Matcher { return anyOfMatcher{conditions} }

func (m anyOfMatcher) Eval(subject any) Result {
	for _, c := range m.conditions {
		if r := c.Eval(subject); r.Matched {
			return Result{
				Matched:         true,
				PassExplanation: r.PassExplanation,
				FailExplanation: "None of the conditions were true",
			}
		}
	}
	return Result{
		Matched:         false,
		FailExplanation: "None of the conditions were true",
	}
}
