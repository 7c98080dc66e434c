package testbank

import (
	"time"
	"unicode"
)

// MutationDelay is how long after a bank load each eligible question waits
// before its one-shot mutation fires.
const MutationDelay = 5 * time.Second

// MutationEligible reports whether a question qualifies for the delayed
// content mutation: scq or integer type, not already mutated, and at least
// one digit in the stem or any option text.
func MutationEligible(q *Question) bool {
	if q == nil || q.Mutated {
		return false
	}
	if q.Type != TypeSCQ && q.Type != TypeInteger {
		return false
	}
	if hasDigit(q.Stem) {
		return true
	}
	for _, opt := range q.Options {
		if hasDigit(opt.Text) {
			return true
		}
	}
	return false
}

// MutationCandidates returns the ids of all eligible questions, evaluated
// once per loaded bank.
func MutationCandidates(qs []Question) []string {
	var ids []string
	for i := range qs {
		if MutationEligible(&qs[i]) {
			ids = append(ids, qs[i].ID)
		}
	}
	return ids
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
