package testbank

import "testing"

func TestCheckAnswer_Integer(t *testing.T) {
	q := &Question{
		Type: TypeInteger,
		Key:  AnswerKey{Kind: KeyInteger, Value: "42"},
	}

	tests := []struct {
		name   string
		picked string
		want   bool
	}{
		{"exact", "42", true},
		{"decimal form", "42.0", true},
		{"within tolerance", "42.0000001", true},
		{"outside tolerance", "42.001", false},
		{"whitespace trimmed", "  42 ", true},
		{"wrong value", "41", false},
		{"negative mismatch", "-42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAnswer(q, Selection{Text: tt.picked})
			if got != tt.want {
				t.Errorf("CheckAnswer(%q) = %v, want %v", tt.picked, got, tt.want)
			}
		})
	}
}

func TestCheckAnswer_IntegerNonNumericKey(t *testing.T) {
	q := &Question{
		Type: TypeInteger,
		Key:  AnswerKey{Kind: KeyInteger, Value: "infinity"},
	}

	if !CheckAnswer(q, Selection{Text: " infinity "}) {
		t.Error("non-numeric key must fall back to trimmed string equality")
	}
	if CheckAnswer(q, Selection{Text: "Infinity"}) {
		t.Error("string fallback is case-sensitive")
	}

	q.Key.Value = "nan"
	if !CheckAnswer(q, Selection{Text: "nan"}) {
		t.Error("nan-spelled key must compare as a string")
	}
}

func TestCheckAnswer_SingleLabel(t *testing.T) {
	q := &Question{
		Type: TypeSCQ,
		Key:  AnswerKey{Kind: KeySingle, Value: "B"},
	}

	if !CheckAnswer(q, Selection{Labels: []string{"b"}}) {
		t.Error("single label must match case-insensitively")
	}
	if CheckAnswer(q, Selection{Labels: []string{"A"}}) {
		t.Error("wrong label must not match")
	}
	if CheckAnswer(q, Selection{Labels: []string{"A", "B"}}) {
		t.Error("two labels cannot match a single-label key")
	}
}

func TestCheckAnswer_Set(t *testing.T) {
	q := &Question{
		Type: TypeMCQ,
		Key:  AnswerKey{Kind: KeySet, Labels: []string{"A", "C"}},
	}

	tests := []struct {
		name   string
		picked []string
		want   bool
	}{
		{"exact set", []string{"A", "C"}, true},
		{"order independent", []string{"c", "a"}, true},
		{"subset", []string{"A"}, false},
		{"superset", []string{"A", "B", "C"}, false},
		{"disjoint", []string{"B", "D"}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAnswer(q, Selection{Labels: tt.picked})
			if got != tt.want {
				t.Errorf("CheckAnswer(%v) = %v, want %v", tt.picked, got, tt.want)
			}
		})
	}
}

func TestCheckAnswer_NoKeyNeverCorrect(t *testing.T) {
	q := &Question{Type: TypeSCQ}
	if CheckAnswer(q, Selection{Labels: []string{"A"}}) {
		t.Error("a keyless question must never score correct")
	}
}
