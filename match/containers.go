package match

import (
	"fmt"
	"reflect"
)

type hasItemMatcher struct {
	right any
}

// HasItem matches containers holding the given element. Keyed containers
// (maps, Lookup implementations) are searched through their native lookup;
// sequences are scanned in iteration order and the diagnostic reports the
// first matching 0-indexed position.
func HasItem(element any) Matcher { return hasItemMatcher{element} }

// HasKey is shorthand for HasItem, reading better against maps and sets.
func HasKey(key any) Matcher { return HasItem(key) }

func (m hasItemMatcher) Eval(container any) Result {
	fr := findInContainer(container, m.right)
	if !fr.iterable {
		return Result{
			Matched:         false,
			FailExplanation: Repr(container) + " is not a container",
		}
	}
	pass := "Found " + Repr(m.right) + " in " + Repr(container)
	if !fr.keyed {
		pass = "Found " + Repr(m.right) + " in position " + Repr(fr.pos) +
			" of " + Repr(container)
	}
	return Result{
		Matched:         fr.found,
		PassExplanation: pass,
		FailExplanation: "Could not find " + Repr(m.right) + " in " + Repr(container),
	}
}

type hasEntryMatcher struct {
	key   any
	value any
}

// HasEntry matches map-like containers holding the given key with the given
// value. A missing key names only the key; a value mismatch names both the
// found entry and the expected value.
func HasEntry(key, value any) Matcher { return hasEntryMatcher{key, value} }

func (m hasEntryMatcher) Eval(container any) Result {
	found, ok := entryLookup(container, m.key)
	if !ok {
		return Result{
			Matched: false,
			FailExplanation: "Could not find " + Repr(m.key) + " in " +
				Repr(container),
		}
	}
	return Result{
		Matched: valuesEqual(found, m.value),
		PassExplanation: "Found " + Repr(Pair{m.key, found}) + " in " +
			Repr(container),
		FailExplanation: "Found " + Repr(Pair{m.key, found}) + ", but expected " +
			Repr(Pair{m.key, m.value}),
	}
}

func entryLookup(container, key any) (any, bool) {
	if g, ok := container.(Getter); ok {
		return g.Get(key)
	}
	if container == nil {
		return nil, false
	}
	rv := reflect.ValueOf(container)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	return mapLookup(rv, key)
}

type hasItemsMatcher struct {
	elements []any
}

// HasItems matches containers holding every listed element. On the first
// absence the diagnostic names exactly that missing element.
func HasItems(elements ...any) Matcher { return hasItemsMatcher{elements} }

// HasKeys is shorthand for HasItems.
func HasKeys(keys ...any) Matcher { return HasItems(keys...) }

func (m hasItemsMatcher) Eval(container any) Result {
	foundAll := "Found all of " + Repr(m.elements) + " in " + Repr(container)
	for _, e := range m.elements {
		fr := findInContainer(container, e)
		if !fr.iterable {
			return Result{
				Matched:         false,
				FailExplanation: Repr(container) + " is not a container",
			}
		}
		if !fr.found {
			return Result{
				Matched:         false,
				PassExplanation: foundAll,
				FailExplanation: "Did not find " + Repr(e) + " in " + Repr(container),
			}
		}
	}
	return Result{Matched: true, PassExplanation: foundAll}
}

type matchesSequenceMatcher struct {
	expected any
}

// MatchesSequence matches sequences of the same length whose corresponding
// positions are all equal. A length mismatch reports both lengths; a
// positional mismatch reports the first differing 0-indexed position and
// both values.
func MatchesSequence(expected any) Matcher { return matchesSequenceMatcher{expected} }

func (m matchesSequenceMatcher) Eval(subject any) Result {
	want, ok := toSequence(m.expected)
	if !ok {
		return Result{
			Matched:         false,
			FailExplanation: Repr(m.expected) + " is not a sequence",
		}
	}
	got, ok := toSequence(subject)
	if !ok {
		return Result{
			Matched:         false,
			FailExplanation: Repr(subject) + " is not a sequence",
		}
	}
	if len(want) != len(got) {
		return Result{
			Matched: false,
			FailExplanation: fmt.Sprintf("Ranges are of different length (%d and %d)",
				len(want), len(got)),
		}
	}
	for i := range want {
		if !valuesEqual(want[i], got[i]) {
			return Result{
				Matched: false,
				FailExplanation: "In position " + Repr(i) + ", " +
					Repr(want[i]) + " != " + Repr(got[i]),
			}
		}
	}
	return Result{Matched: true, PassExplanation: "All corresponding elements were equal."}
}

type isInMatcher struct {
	container any
}

// IsIn matches subjects found inside the given container, using the same
// keyed-versus-sequential dispatch as HasItem.
func IsIn(container any) Matcher { return isInMatcher{container} }

func (m isInMatcher) Eval(subject any) Result {
	fr := findInContainer(m.container, subject)
	if !fr.iterable {
		return Result{
			Matched:         false,
			FailExplanation: Repr(m.container) + " is not a container",
		}
	}
	pass := "Found " + Repr(subject) + " in " + Repr(m.container)
	if !fr.keyed {
		pass = "Found " + Repr(subject) + " in position " + Repr(fr.pos) +
			" of " + Repr(m.container)
	}
	return Result{
		Matched:         fr.found,
		PassExplanation: pass,
		FailExplanation: "Could not find " + Repr(subject) + " in " + Repr(m.container),
	}
}

type isInRangeMatcher struct {
	sequence any
}

// IsInRange matches subjects found by linear scan over the given sequence.
func IsInRange(sequence any) Matcher { return isInRangeMatcher{sequence} }

func (m isInRangeMatcher) Eval(subject any) Result {
	seq, ok := toSequence(m.sequence)
	if !ok {
		return Result{
			Matched:         false,
			FailExplanation: Repr(m.sequence) + " is not a sequence",
		}
	}
	for i, e := range seq {
		if valuesEqual(e, subject) {
			return Result{
				Matched: true,
				PassExplanation: "Found " + Repr(subject) + " in range, " +
					Repr(i) + " steps from the start",
			}
		}
	}
	return Result{
		Matched:         false,
		FailExplanation: "Could not find " + Repr(subject) + " in the range",
	}
}
