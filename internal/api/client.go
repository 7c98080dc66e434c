package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ritankar/dost/internal/testbank"
)

// Backend is the full backend surface the client core consumes. The flow
// never touches HTTP directly; tests substitute this interface.
type Backend interface {
	StartSession(ctx context.Context, text string) (StartResult, error)
	NextQuestion(ctx context.Context, sessionID string) (NextResult, error)
	SubmitAnswer(ctx context.Context, sessionID, answer, domain, slot string) (AnswerResult, error)
	StartSimulation(ctx context.Context, sessionID string) (int, error)
	LoadQuestions(ctx context.Context) ([]testbank.Question, error)
	MutateQuestion(ctx context.Context, questionID string) (testbank.Question, bool, error)
}

// Client is the HTTP implementation of Backend.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

var _ Backend = (*Client)(nil)

// NewClient creates a Client for the given Config.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// StartSession creates a session from the user's initial text.
func (c *Client) StartSession(ctx context.Context, text string) (StartResult, error) {
	var resp startResponse
	err := c.do(ctx, http.MethodPost, "/session/start", map[string]string{"text": text}, &resp, nil)
	if err != nil {
		return StartResult{}, err
	}
	if resp.SessionID == "" {
		return StartResult{}, &ErrInvalidPayload{
			Endpoint: "/session/start",
			Err:      fmt.Errorf("missing session_id"),
		}
	}
	return StartResult{SessionID: resp.SessionID, ActiveDomains: resp.ActiveDomains}, nil
}

// NextQuestion fetches the next intake prompt. The three response shapes
// are folded into NextResult's tagged Outcome.
func (c *Client) NextQuestion(ctx context.Context, sessionID string) (NextResult, error) {
	path := fmt.Sprintf("/session/%s/next-question", url.PathEscape(sessionID))
	var resp nextResponse
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &resp, nil); err != nil {
		return NextResult{}, err
	}

	switch {
	case resp.Pending:
		msg := resp.Message
		if msg == "" {
			msg = "Answer the current question first."
		}
		return NextResult{Outcome: NextPending, Message: msg}, nil
	case resp.Done:
		return NextResult{Outcome: NextDone, PopupsCount: resp.PopupsCount}, nil
	default:
		return NextResult{
			Outcome: NextQuestion,
			Prompt: Prompt{
				Domain:   resp.Domain,
				Slot:     resp.Slot,
				Question: resp.Question,
				Hint:     resp.Hint,
			},
		}, nil
	}
}

// SubmitAnswer posts the answer for the current prompt.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID, answer, domain, slot string) (AnswerResult, error) {
	path := fmt.Sprintf("/session/%s/answer", url.PathEscape(sessionID))
	body := map[string]string{"answer": answer, "domain": domain, "slot": slot}
	var resp answerResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp, nil); err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{NeedClarification: resp.NeedClarification, Question: resp.Question}, nil
}

// StartSimulation triggers server-side popup scheduling. Returns the number
// of popups scheduled.
func (c *Client) StartSimulation(ctx context.Context, sessionID string) (int, error) {
	path := fmt.Sprintf("/session/%s/start-simulation", url.PathEscape(sessionID))
	var resp simulationResponse
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &resp, nil); err != nil {
		return 0, err
	}
	return resp.PopupsScheduled, nil
}

// LoadQuestions fetches the test-bank questions, validated against the
// question-bank schema before normalization.
func (c *Client) LoadQuestions(ctx context.Context) ([]testbank.Question, error) {
	const path = "/api/questions/load-test-questions"
	var resp questionsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, questionBankSchema); err != nil {
		return nil, err
	}
	questions := make([]testbank.Question, 0, len(resp.Questions))
	for _, wq := range resp.Questions {
		questions = append(questions, wq.normalize())
	}
	return questions, nil
}

// MutateQuestion requests an out-of-band rewrite of one question.
func (c *Client) MutateQuestion(ctx context.Context, questionID string) (testbank.Question, bool, error) {
	path := fmt.Sprintf("/api/questions/mutate/%s", url.PathEscape(questionID))
	var resp mutateResponse
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &resp, mutatedQuestionSchema); err != nil {
		return testbank.Question{}, false, err
	}
	q := resp.Question.normalize()
	q.Mutated = resp.Mutated || q.Mutated
	return q, resp.Mutated, nil
}

// do issues one request and decodes the response. Non-2xx responses become
// *ErrAPI with the structured error message extracted when present; bodies
// are schema-validated first when a schema is given.
func (c *Client) do(ctx context.Context, method, path string, body, out any, schema *Schema) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("path", path).Err(err).Msg("request failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &ErrAPI{Status: resp.StatusCode, Message: extractMessage(raw)}
		c.log.Warn().Str("path", path).Int("status", resp.StatusCode).Msg(apiErr.Error())
		return apiErr
	}

	if schema != nil {
		if err := validatePayload(schema, path, raw); err != nil {
			c.log.Warn().Str("path", path).Err(err).Msg("payload rejected")
			return err
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &ErrInvalidPayload{Endpoint: path, Err: err}
		}
	}
	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("request ok")
	return nil
}

// extractMessage pulls the error text out of a structured error body.
func extractMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
