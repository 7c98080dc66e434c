package testbank

import (
	"math"
	"strconv"
	"strings"
)

// integerTolerance is the absolute tolerance for numeric comparison of
// integer-type answers.
const integerTolerance = 1e-6

// CheckAnswer compares a selection against the question's answer key.
//
// Integer questions: if both the picked value and the key parse as numbers,
// they match within an absolute tolerance of 1e-6; otherwise the trimmed
// strings must be equal. Choice questions: a single-label key matches
// case-insensitively after trimming; a set key matches when the selected
// labels form exactly the same set, case-insensitively.
func CheckAnswer(q *Question, sel Selection) bool {
	if q.IsInteger() {
		return checkInteger(sel.Text, q.Key)
	}
	switch q.Key.Kind {
	case KeySingle:
		if len(sel.Labels) != 1 {
			return false
		}
		return foldEqual(sel.Labels[0], q.Key.Value)
	case KeySet:
		return checkSet(sel.Labels, q.Key.Labels)
	default:
		return false
	}
}

func checkInteger(picked string, key AnswerKey) bool {
	if key.Kind != KeyInteger {
		return false
	}
	picked = strings.TrimSpace(picked)
	expected := strings.TrimSpace(key.Value)

	numPicked, errPicked := strconv.ParseFloat(picked, 64)
	numExpected, errExpected := strconv.ParseFloat(expected, 64)
	if errPicked == nil && errExpected == nil && isFinite(numPicked) && isFinite(numExpected) {
		return math.Abs(numPicked-numExpected) < integerTolerance
	}
	return picked == expected
}

// ParseFloat accepts spellings like "inf" and "nan". Those are not numeric
// answers; they take the string comparison instead.
func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func checkSet(picked, expected []string) bool {
	if len(expected) == 0 {
		return false
	}
	pickedSet := foldSet(picked)
	expectedSet := foldSet(expected)
	if len(pickedSet) != len(expectedSet) {
		return false
	}
	for label := range pickedSet {
		if _, ok := expectedSet[label]; !ok {
			return false
		}
	}
	return true
}

func foldSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToUpper(strings.TrimSpace(l))] = struct{}{}
	}
	return set
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
