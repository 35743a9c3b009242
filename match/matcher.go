// Package match provides the matcher algebra used by unitlite assertions:
// composable predicates over arbitrary values that produce structured
// pass/fail diagnostics.
//
// Every matcher is total: Eval never panics, so its result can always be
// consumed by the assertion entry point.
package match

import (
	"fmt"
	"reflect"
)

// Result is the structured outcome of evaluating one matcher against one
// subject. Explanations may be empty and are only rendered when the
// surrounding test fails.
type Result struct {
	Matched         bool
	PassExplanation string
	FailExplanation string
}

// Matcher is a reusable predicate-with-diagnostics over a subject value.
type Matcher interface {
	Eval(subject any) Result
}

// Lookup is implemented by set-like containers that expose a native
// membership test. Containers implementing it are searched via Has rather
// than by linear scan.
type Lookup interface {
	Has(element any) bool
}

// Getter is implemented by map-like containers that expose native keyed
// retrieval. HasEntry consults it before falling back to reflection.
type Getter interface {
	Get(key any) (any, bool)
}

// valuesEqual compares two values for matcher purposes. Numeric values
// compare by value across widths; everything else uses deep equality.
func valuesEqual(a, b any) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values when an ordering exists: mixed-width
// numerics compare numerically, strings lexicographically. The second
// return is false when the pair has no ordering.
func compareValues(a, b any) (int, bool) {
	av, aok := numericValue(a)
	bv, bok := numericValue(b)
	if aok && bok {
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func numericValue(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// findResult reports the outcome of a container membership test. Keyed
// containers report no position; sequential containers report the first
// matching 0-indexed position.
type findResult struct {
	found    bool
	keyed    bool
	iterable bool
	pos      int
}

// findInContainer locates an element inside a container. Containers with a
// native keyed-lookup capability (maps, Lookup implementations) are searched
// through it; anything iterable is scanned linearly in iteration order.
func findInContainer(container, element any) findResult {
	if l, ok := container.(Lookup); ok {
		return findResult{found: l.Has(element), keyed: true, iterable: true, pos: -1}
	}
	if container == nil {
		return findResult{pos: -1}
	}
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		return findResult{found: mapHasKey(rv, element), keyed: true, iterable: true, pos: -1}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if valuesEqual(rv.Index(i).Interface(), element) {
				return findResult{found: true, iterable: true, pos: i}
			}
		}
		return findResult{iterable: true, pos: -1}
	case reflect.String:
		for i, r := range []rune(rv.String()) {
			if valuesEqual(r, element) {
				return findResult{found: true, iterable: true, pos: i}
			}
		}
		return findResult{iterable: true, pos: -1}
	default:
		return findResult{pos: -1}
	}
}

func mapHasKey(rv reflect.Value, key any) bool {
	_, ok := mapLookup(rv, key)
	return ok
}

// mapLookup retrieves a map value by key, converting the key to the map's
// key type when possible and falling back to an equality scan otherwise.
// An unhashable key would make MapIndex panic (any key is assignable to an
// interface-keyed map), so only comparable keys take the native-lookup path.
func mapLookup(rv reflect.Value, key any) (any, bool) {
	keyType := rv.Type().Key()
	if key != nil {
		kv := reflect.ValueOf(key)
		if !kv.Comparable() {
			return nil, false
		}
		if kv.Type().AssignableTo(keyType) {
			if v := rv.MapIndex(kv); v.IsValid() {
				return v.Interface(), true
			}
			return nil, false
		}
		if kv.Type().ConvertibleTo(keyType) && kv.Kind() != reflect.String && keyType.Kind() != reflect.String {
			if v := rv.MapIndex(kv.Convert(keyType)); v.IsValid() {
				return v.Interface(), true
			}
			return nil, false
		}
	}
	iter := rv.MapRange()
	for iter.Next() {
		if valuesEqual(iter.Key().Interface(), key) {
			return iter.Value().Interface(), true
		}
	}
	return nil, false
}

// toSequence flattens a slice, array, or string into []any for positional
// comparison.
func toSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	case reflect.String:
		rs := []rune(rv.String())
		out := make([]any, len(rs))
		for i, r := range rs {
			out[i] = r
		}
		return out, true
	default:
		return nil, false
	}
}

// toString coerces a subject for the string matchers.
func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case []rune:
		return string(t), true
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}

func notAString(subject any) Result {
	return Result{
		Matched:         false,
		FailExplanation: Repr(subject) + " is not a string",
	}
}
