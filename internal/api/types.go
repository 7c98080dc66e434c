package api

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/ritankar/dost/internal/testbank"
)

// StartResult is the outcome of a successful session-start call.
type StartResult struct {
	SessionID     string
	ActiveDomains []string
}

// NextOutcome discriminates the three shapes a next-question response takes.
type NextOutcome int

const (
	// NextQuestion carries a fresh intake prompt.
	NextQuestion NextOutcome = iota
	// NextPending means the current question is still unanswered.
	NextPending
	// NextDone means the intake is complete.
	NextDone
)

// Prompt is one intake-phase question. It has no identity beyond the
// current turn and is replaced wholesale on every next-question call.
type Prompt struct {
	Domain   string
	Slot     string
	Question string
	Hint     string
}

// NextResult is the decoded next-question response.
type NextResult struct {
	Outcome     NextOutcome
	Message     string // reminder text on NextPending
	PopupsCount int    // scheduled popups on NextDone
	Prompt      Prompt // set on NextQuestion
}

// AnswerResult is the decoded submit-answer response.
type AnswerResult struct {
	NeedClarification bool
	Question          string // clarifying question text
}

// Wire shapes -----------------------------------------------------------

type startResponse struct {
	SessionID     string   `json:"session_id"`
	Status        string   `json:"status"`
	ActiveDomains []string `json:"active_domains"`
}

type nextResponse struct {
	Pending     bool   `json:"pending"`
	Done        bool   `json:"done"`
	Message     string `json:"message"`
	PopupsCount int    `json:"popups_count"`
	Domain      string `json:"domain"`
	Slot        string `json:"slot"`
	Question    string `json:"question"`
	Hint        string `json:"hint"`
}

type answerResponse struct {
	OK                bool   `json:"ok"`
	NeedClarification bool   `json:"need_clarification"`
	Question          string `json:"question"`
}

type simulationResponse struct {
	OK              bool `json:"ok"`
	PopupsScheduled int  `json:"popups_scheduled"`
}

type questionsResponse struct {
	Status    string         `json:"status"`
	Questions []wireQuestion `json:"questions"`
}

type mutateResponse struct {
	Status   string       `json:"status"`
	Mutated  bool         `json:"mutated"`
	Question wireQuestion `json:"question"`
}

type wireOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// wireQuestion mirrors the backend's question shape. The answer key arrives
// as one of correct_answer (string or array), correct_answers (array) or
// integer_answer (number or string); normalize folds the variants into one
// tagged AnswerKey before the question enters the core.
type wireQuestion struct {
	QuestionID     string       `json:"question_id"`
	QuestionType   string       `json:"question_type"`
	Subject        string       `json:"subject"`
	Chapter        string       `json:"chapter"`
	Difficulty     string       `json:"difficulty"`
	QuestionHTML   string       `json:"question_html"`
	QuestionImages []string     `json:"question_images"`
	Options        []wireOption `json:"options"`
	CorrectAnswer  any          `json:"correct_answer"`
	CorrectAnswers []string     `json:"correct_answers"`
	IntegerAnswer  any          `json:"integer_answer"`
	Mutated        bool         `json:"mutated"`
}

func (w wireQuestion) normalize() testbank.Question {
	q := testbank.Question{
		ID:         w.QuestionID,
		Type:       testbank.Type(strings.ToLower(w.QuestionType)),
		Stem:       stripTags(w.QuestionHTML),
		Images:     w.QuestionImages,
		Subject:    w.Subject,
		Chapter:    w.Chapter,
		Difficulty: w.Difficulty,
		Mutated:    w.Mutated,
	}
	for _, opt := range w.Options {
		q.Options = append(q.Options, testbank.Option{
			Label: opt.Label,
			Text:  stripTags(opt.Text),
		})
	}
	q.Key = normalizeKey(w, q.Type)
	return q
}

func normalizeKey(w wireQuestion, t testbank.Type) testbank.AnswerKey {
	if t == testbank.TypeInteger {
		if s, ok := scalarString(w.IntegerAnswer); ok {
			return testbank.AnswerKey{Kind: testbank.KeyInteger, Value: s}
		}
		return testbank.AnswerKey{}
	}
	if len(w.CorrectAnswers) > 0 {
		return testbank.AnswerKey{Kind: testbank.KeySet, Labels: w.CorrectAnswers}
	}
	switch v := w.CorrectAnswer.(type) {
	case string:
		if v == "" {
			return testbank.AnswerKey{}
		}
		return testbank.AnswerKey{Kind: testbank.KeySingle, Value: v}
	case []any:
		var labels []string
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				labels = append(labels, s)
			}
		}
		if len(labels) == 0 {
			return testbank.AnswerKey{}
		}
		return testbank.AnswerKey{Kind: testbank.KeySet, Labels: labels}
	default:
		return testbank.AnswerKey{}
	}
}

// scalarString renders a decoded JSON scalar as its string form.
func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags removes HTML markup from backend rich content; the terminal
// renders plain text only.
func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
