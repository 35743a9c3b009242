package match

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// containerDisplayLimit caps how many elements of an iterable are rendered
// before the remainder is summarized.
const containerDisplayLimit = 10

// Pair is a two-element composite used in diagnostics, rendered as
// "<first, second>". Map entries are reported as Pairs.
type Pair struct {
	First  any
	Second any
}

// Repr renders a value for diagnostic output. Strings and runes are quoted,
// booleans render as true/false, values with a natural one-line textual form
// use it, iterables render as a bracketed list capped at containerDisplayLimit
// elements, and anything else renders as "???". Repr is used only for
// diagnostics, never for equality logic.
func Repr(v any) string {
	if v == nil {
		return "nil"
	}
	switch t := v.(type) {
	case string:
		return `"` + t + `"`
	case rune:
		return "'" + string(t) + "'"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case Pair:
		return "<" + Repr(t.First) + ", " + Repr(t.Second) + ">"
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}
	return reflectRepr(reflect.ValueOf(v))
}

func reflectRepr(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Int32:
		// rune-typed values are handled in Repr; named int32 types land here
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return `"` + rv.String() + `"`
	case reflect.Bool:
		if rv.Bool() {
			return "true"
		}
		return "false"
	case reflect.Slice, reflect.Array:
		return listRepr(rv)
	case reflect.Map:
		return mapRepr(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return Repr(rv.Elem().Interface())
	default:
		return "???"
	}
}

func listRepr(rv reflect.Value) string {
	n := rv.Len()
	parts := make([]string, 0, min(n, containerDisplayLimit)+1)
	for i := 0; i < n && i < containerDisplayLimit; i++ {
		parts = append(parts, Repr(rv.Index(i).Interface()))
	}
	if n > containerDisplayLimit {
		parts = append(parts, fmt.Sprintf("... (%d additional elements) ...", n-containerDisplayLimit))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// mapRepr renders a map as an ordered list of <key, value> pairs. Keys are
// sorted so the rendering is deterministic.
func mapRepr(rv reflect.Value) string {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		if c, ok := compareValues(keys[i].Interface(), keys[j].Interface()); ok {
			return c < 0
		}
		return Repr(keys[i].Interface()) < Repr(keys[j].Interface())
	})
	n := len(keys)
	parts := make([]string, 0, min(n, containerDisplayLimit)+1)
	for i := 0; i < n && i < containerDisplayLimit; i++ {
		k := keys[i]
		parts = append(parts, Repr(Pair{k.Interface(), rv.MapIndex(k).Interface()}))
	}
	if n > containerDisplayLimit {
		parts = append(parts, fmt.Sprintf("... (%d additional elements) ...", n-containerDisplayLimit))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
