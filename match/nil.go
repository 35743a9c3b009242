package match

import "reflect"

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

type isNilMatcher struct{}

// IsNil matches nil values, including typed nil pointers, maps, slices,
// channels, and funcs.
func IsNil() Matcher { return isNilMatcher{} }

func (isNilMatcher) Eval(subject any) Result {
	return Result{
		Matched:         isNilValue(subject),
		PassExplanation: Repr(subject) + " is nil",
		FailExplanation: Repr(subject) + " is not nil",
	}
}

type isNotNilMatcher struct{}

// IsNotNil matches any value that is not nil.
func IsNotNil() Matcher { return isNotNilMatcher{} }

func (isNotNilMatcher) Eval(subject any) Result {
	return Result{
		Matched:         !isNilValue(subject),
		PassExplanation: Repr(subject) + " is not nil",
		FailExplanation: Repr(subject) + " is nil",
	}
}
