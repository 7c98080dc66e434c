package testbank

import "testing"

func TestMutationEligible(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{
			name: "scq with digit in stem",
			q:    Question{Type: TypeSCQ, Stem: "What is 2 + 2?"},
			want: true,
		},
		{
			name: "integer with digit in option",
			q: Question{
				Type:    TypeInteger,
				Stem:    "Sum of the first primes",
				Options: []Option{{Label: "A", Text: "value 17"}},
			},
			want: true,
		},
		{
			name: "mcq never eligible",
			q:    Question{Type: TypeMCQ, Stem: "Pick all multiples of 3"},
			want: false,
		},
		{
			name: "already mutated",
			q:    Question{Type: TypeSCQ, Stem: "What is 2 + 2?", Mutated: true},
			want: false,
		},
		{
			name: "no digits anywhere",
			q: Question{
				Type:    TypeSCQ,
				Stem:    "Which gas do plants absorb?",
				Options: []Option{{Label: "A", Text: "oxygen"}},
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MutationEligible(&tt.q); got != tt.want {
				t.Errorf("MutationEligible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMutationCandidates(t *testing.T) {
	qs := []Question{
		{ID: "q1", Type: TypeSCQ, Stem: "What is 2 + 2?"},
		{ID: "q2", Type: TypeMCQ, Stem: "Pick multiples of 3"},
		{ID: "q3", Type: TypeInteger, Stem: "Count to 10"},
		{ID: "q4", Type: TypeSCQ, Stem: "no digits here"},
	}

	ids := MutationCandidates(qs)
	if len(ids) != 2 {
		t.Fatalf("candidates = %v, want [q1 q3]", ids)
	}
	if ids[0] != "q1" || ids[1] != "q3" {
		t.Errorf("candidates = %v, want [q1 q3]", ids)
	}
}
