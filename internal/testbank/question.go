package testbank

import "strings"

// Type identifies how a question is answered.
type Type string

const (
	TypeSCQ     Type = "scq"
	TypeMCQ     Type = "mcq"
	TypeInteger Type = "integer"
)

// KeyKind discriminates the answer key variants the backend serves.
type KeyKind int

const (
	// KeyNone means the backend provided no answer key. Submissions are
	// recorded but never marked correct.
	KeyNone KeyKind = iota
	// KeySingle is one expected option label.
	KeySingle
	// KeySet is a set of expected option labels.
	KeySet
	// KeyInteger is a numeric expected value, kept as its string form.
	KeyInteger
)

// AnswerKey is the normalized form of the backend's correct_answer /
// correct_answers / integer_answer fields.
type AnswerKey struct {
	Kind   KeyKind
	Value  string   // KeySingle label or KeyInteger value
	Labels []string // KeySet members
}

// Option is one selectable choice.
type Option struct {
	Label string
	Text  string
}

// Question is the canonical test-bank question. Identity is ID; questions
// are replaced in place on mutation and never deleted during a session.
type Question struct {
	ID         string
	Type       Type
	Stem       string
	Images     []string
	Options    []Option
	Key        AnswerKey
	Subject    string
	Chapter    string
	Difficulty string
	Mutated    bool
}

// MetaLine returns the "subject · difficulty" line for the question panel.
func (q *Question) MetaLine() string {
	var parts []string
	if q.Subject != "" {
		parts = append(parts, q.Subject)
	}
	if q.Difficulty != "" {
		parts = append(parts, q.Difficulty)
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " · ")
}

// IsInteger reports whether the question takes keypad input.
func (q *Question) IsInteger() bool {
	return q.Type == TypeInteger
}
