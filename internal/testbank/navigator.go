package testbank

import "strings"

// Selection is the user's in-progress input for one question: option labels
// for choice types, typed digits for integer type.
type Selection struct {
	Labels []string
	Text   string
}

// Empty reports whether nothing usable has been entered.
func (s Selection) Empty() bool {
	return len(s.Labels) == 0 && strings.TrimSpace(s.Text) == ""
}

// AnswerRecord is the stored result of a submission, keyed by question id.
// Resubmitting overwrites the previous record.
type AnswerRecord struct {
	Selected string
	Correct  bool
}

// Navigator owns the ordered question list, the cursor, per-question
// selections and answer records. All navigation clamps into bounds.
type Navigator struct {
	questions  []Question
	index      int
	selections map[string]Selection
	answers    map[string]AnswerRecord
}

// NewNavigator returns an empty navigator.
func NewNavigator() *Navigator {
	return &Navigator{
		selections: make(map[string]Selection),
		answers:    make(map[string]AnswerRecord),
	}
}

// Load replaces the question list wholesale: cursor to 0, all selections and
// answer records cleared. An empty list is a valid, user-visible state.
func (n *Navigator) Load(qs []Question) {
	n.questions = qs
	n.index = 0
	n.selections = make(map[string]Selection)
	n.answers = make(map[string]AnswerRecord)
}

// Len returns the number of loaded questions.
func (n *Navigator) Len() int { return len(n.questions) }

// Empty reports whether no questions are loaded.
func (n *Navigator) Empty() bool { return len(n.questions) == 0 }

// Index returns the current cursor position.
func (n *Navigator) Index() int { return n.index }

// Current returns the question under the cursor, or nil when empty.
func (n *Navigator) Current() *Question {
	if n.Empty() {
		return nil
	}
	return &n.questions[n.index]
}

// Goto moves the cursor by delta, clamped into [0, len-1]. No-op when empty.
func (n *Navigator) Goto(delta int) {
	if n.Empty() {
		return
	}
	n.index = clamp(n.index+delta, 0, len(n.questions)-1)
}

// Progress returns the completion percentage for the progress bar.
func (n *Navigator) Progress() float64 {
	if n.Empty() {
		return 0
	}
	return float64(n.index+1) / float64(len(n.questions)) * 100
}

// Selection returns the stored selection for the current question.
func (n *Navigator) Selection() Selection {
	q := n.Current()
	if q == nil {
		return Selection{}
	}
	return n.selections[q.ID]
}

// PickLabel records an option label for the current question. SCQ replaces
// the previous pick; MCQ toggles membership.
func (n *Navigator) PickLabel(label string) {
	q := n.Current()
	if q == nil || q.IsInteger() {
		return
	}
	sel := n.selections[q.ID]
	if q.Type == TypeMCQ {
		sel.Labels = toggle(sel.Labels, label)
	} else {
		sel.Labels = []string{label}
	}
	n.selections[q.ID] = sel
}

// AppendDigit appends one keypad digit to the current integer selection.
func (n *Navigator) AppendDigit(d rune) {
	q := n.Current()
	if q == nil || !q.IsInteger() {
		return
	}
	if (d < '0' || d > '9') && d != '-' && d != '.' {
		return
	}
	sel := n.selections[q.ID]
	sel.Text += string(d)
	n.selections[q.ID] = sel
}

// Backspace removes the last typed digit of the current integer selection.
func (n *Navigator) Backspace() {
	q := n.Current()
	if q == nil || !q.IsInteger() {
		return
	}
	sel := n.selections[q.ID]
	if sel.Text != "" {
		sel.Text = sel.Text[:len(sel.Text)-1]
	}
	n.selections[q.ID] = sel
}

// ClearInput wipes the typed value for the current integer question.
func (n *Navigator) ClearInput() {
	q := n.Current()
	if q == nil {
		return
	}
	delete(n.selections, q.ID)
}

// SubmitResult reports the outcome of SubmitCurrent.
type SubmitResult struct {
	OK      bool   // false: local validation failed, nothing recorded
	Hint    string // set when OK is false
	Correct bool
}

// SubmitCurrent scores the current question's selection and writes (or
// overwrites) its answer record. An empty selection fails locally.
func (n *Navigator) SubmitCurrent() SubmitResult {
	q := n.Current()
	if q == nil {
		return SubmitResult{Hint: "Load questions first."}
	}
	sel := n.selections[q.ID]
	if q.IsInteger() {
		if strings.TrimSpace(sel.Text) == "" {
			return SubmitResult{Hint: "Enter an integer answer first."}
		}
	} else if len(sel.Labels) == 0 {
		return SubmitResult{Hint: "Select an option before submitting."}
	}

	correct := CheckAnswer(q, sel)
	selected := sel.Text
	if !q.IsInteger() {
		selected = strings.Join(sel.Labels, ",")
	}
	n.answers[q.ID] = AnswerRecord{Selected: selected, Correct: correct}
	return SubmitResult{OK: true, Correct: correct}
}

// Record returns the answer record for a question id.
func (n *Navigator) Record(id string) (AnswerRecord, bool) {
	r, ok := n.answers[id]
	return r, ok
}

// Score returns correct count and the denominator
// max(len(questions), answered count).
func (n *Navigator) Score() (correct, total int) {
	for _, r := range n.answers {
		if r.Correct {
			correct++
		}
	}
	total = len(n.questions)
	if len(n.answers) > total {
		total = len(n.answers)
	}
	return correct, total
}

// ApplyMutation replaces the question with the given id in place, leaving
// selections and answer records (keyed by id) untouched. It returns true
// when the replaced question is the one under the cursor.
func (n *Navigator) ApplyMutation(id string, q Question) (current bool, applied bool) {
	for i := range n.questions {
		if n.questions[i].ID == id {
			n.questions[i] = q
			return i == n.index, true
		}
	}
	return false, false
}

// QuestionByID returns the live question with the given id, or nil.
func (n *Navigator) QuestionByID(id string) *Question {
	for i := range n.questions {
		if n.questions[i].ID == id {
			return &n.questions[i]
		}
	}
	return nil
}

// Questions exposes the loaded list for mutation planning.
func (n *Navigator) Questions() []Question {
	return n.questions
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toggle(labels []string, label string) []string {
	for i, l := range labels {
		if strings.EqualFold(l, label) {
			return append(labels[:i], labels[i+1:]...)
		}
	}
	return append(labels, label)
}
