package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ChoiceKey identifies one of the four choice slots, "1" through "4".
type ChoiceKey string

// ChoiceKeys lists the slots in display order.
var ChoiceKeys = [4]ChoiceKey{"1", "2", "3", "4"}

func ValidChoiceKey(k ChoiceKey) bool {
	for _, c := range ChoiceKeys {
		if c == k {
			return true
		}
	}
	return false
}

// Selection is a sorted set of choice keys.
type Selection []ChoiceKey

// NewSelection normalises keys into a sorted set.
func NewSelection(keys ...ChoiceKey) Selection {
	seen := make(map[ChoiceKey]struct{}, len(keys))
	out := make(Selection, 0, len(keys))
	for _, k := range keys {
		k = ChoiceKey(strings.TrimSpace(string(k)))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return lessKey(out[i], out[j]) })
	return out
}

func lessKey(a, b ChoiceKey) bool {
	ai, aerr := strconv.Atoi(string(a))
	bi, berr := strconv.Atoi(string(b))
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func (s Selection) Empty() bool { return len(s) == 0 }

func (s Selection) Contains(k ChoiceKey) bool {
	for _, x := range s {
		if x == k {
			return true
		}
	}
	return false
}

// Toggle returns a copy of s with k added or removed.
func (s Selection) Toggle(k ChoiceKey) Selection {
	if s.Contains(k) {
		out := make(Selection, 0, len(s))
		for _, x := range s {
			if x != k {
				out = append(out, x)
			}
		}
		return out
	}
	return NewSelection(append(append(Selection{}, s...), k)...)
}

// Equal compares as sets, ignoring order and duplicates.
func (s Selection) Equal(other Selection) bool {
	a, b := NewSelection(s...), NewSelection(other...)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s Selection) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// Question is immutable once loaded.
type Question struct {
	ID             string
	ExamNumber     int
	QuestionNumber int
	Category       string
	Text           string
	Choices        map[ChoiceKey]string
	Correct        Selection
	Explanation    string
	Hint           string
	Theme          string
}

// Choice returns the trimmed text of slot k ("" when absent).
func (q Question) Choice(k ChoiceKey) string {
	return strings.TrimSpace(q.Choices[k])
}

// HasChoiceData reports whether at least one of the four slots has text.
func (q Question) HasChoiceData() bool {
	for _, k := range ChoiceKeys {
		if q.Choice(k) != "" {
			return true
		}
	}
	return false
}

// IsCorrect compares a submitted selection with the correct keys as sets.
func (q Question) IsCorrect(sel Selection) bool {
	return !sel.Empty() && sel.Equal(q.Correct)
}

// RequiredSelections is how many keys must be chosen before an answer is
// submitted: the size of the correct set, at least one.
func (q Question) RequiredSelections() int {
	if n := len(q.Correct); n > 1 {
		return n
	}
	return 1
}
