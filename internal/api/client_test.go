package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ritankar/dost/internal/testbank"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zerolog.Nop())
}

func TestStartSession(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/start" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"session_id":"abc-123","status":"created","active_domains":["sleep","work"]}`))
	})

	res, err := c.StartSession(context.Background(), "long day")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if res.SessionID != "abc-123" {
		t.Errorf("SessionID = %q", res.SessionID)
	}
	if len(res.ActiveDomains) != 2 {
		t.Errorf("ActiveDomains = %v", res.ActiveDomains)
	}
}

func TestStartSession_MissingID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"created"}`))
	})

	_, err := c.StartSession(context.Background(), "hi")
	var invalid *ErrInvalidPayload
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestStartSession_ErrorBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"text is required"}`))
	})

	_, err := c.StartSession(context.Background(), "")
	var apiErr *ErrAPI
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want ErrAPI", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "text is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestNextQuestion_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want NextOutcome
	}{
		{"question", `{"domain":"sleep","slot":"bedtime","question":"When?","hint":"roughly"}`, NextQuestion},
		{"pending", `{"pending":true,"message":"Hold on."}`, NextPending},
		{"pending default message", `{"pending":true}`, NextPending},
		{"done", `{"done":true,"popups_count":5}`, NextDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			res, err := c.NextQuestion(context.Background(), "s1")
			if err != nil {
				t.Fatalf("NextQuestion: %v", err)
			}
			if res.Outcome != tt.want {
				t.Errorf("Outcome = %v, want %v", res.Outcome, tt.want)
			}
			switch tt.name {
			case "question":
				if res.Prompt.Domain != "sleep" || res.Prompt.Question != "When?" {
					t.Errorf("Prompt = %+v", res.Prompt)
				}
			case "pending default message":
				if res.Message != "Answer the current question first." {
					t.Errorf("Message = %q", res.Message)
				}
			case "done":
				if res.PopupsCount != 5 {
					t.Errorf("PopupsCount = %d", res.PopupsCount)
				}
			}
		})
	}
}

func TestSubmitAnswer_Clarification(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/s1/answer" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"ok":true,"need_clarification":true,"question":"Which project?"}`))
	})

	res, err := c.SubmitAnswer(context.Background(), "s1", "work stuff", "work", "focus")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !res.NeedClarification || res.Question != "Which project?" {
		t.Errorf("res = %+v", res)
	}
}

func TestStartSimulation(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"popups_scheduled":7}`))
	})

	n, err := c.StartSimulation(context.Background(), "s1")
	if err != nil {
		t.Fatalf("StartSimulation: %v", err)
	}
	if n != 7 {
		t.Errorf("scheduled = %d, want 7", n)
	}
}

func TestLoadQuestions_NormalizesKeys(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","questions":[
			{"question_id":"q1","question_type":"scq","question_html":"<p>Pick <b>one</b></p>",
			 "options":[{"label":"A","text":"<i>first</i>"}],"correct_answer":"A"},
			{"question_id":"q2","question_type":"mcq","question_html":"Pick two",
			 "options":[{"label":"A","text":"a"},{"label":"B","text":"b"}],"correct_answers":["A","B"]},
			{"question_id":"q3","question_type":"integer","question_html":"How many?","integer_answer":12},
			{"question_id":"q4","question_type":"scq","question_html":"Array key",
			 "options":[{"label":"A","text":"a"}],"correct_answer":["A"]}
		]}`))
	})

	qs, err := c.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("LoadQuestions: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("questions = %d, want 4", len(qs))
	}

	if qs[0].Stem != "Pick one" {
		t.Errorf("q1 stem = %q, want tags stripped", qs[0].Stem)
	}
	if qs[0].Options[0].Text != "first" {
		t.Errorf("q1 option = %q", qs[0].Options[0].Text)
	}
	if qs[0].Key.Kind != testbank.KeySingle || qs[0].Key.Value != "A" {
		t.Errorf("q1 key = %+v", qs[0].Key)
	}
	if qs[1].Key.Kind != testbank.KeySet || len(qs[1].Key.Labels) != 2 {
		t.Errorf("q2 key = %+v", qs[1].Key)
	}
	if qs[2].Key.Kind != testbank.KeyInteger || qs[2].Key.Value != "12" {
		t.Errorf("q3 key = %+v", qs[2].Key)
	}
	if qs[3].Key.Kind != testbank.KeySet || len(qs[3].Key.Labels) != 1 {
		t.Errorf("q4 key = %+v", qs[3].Key)
	}
}

func TestLoadQuestions_SchemaRejectsBadBank(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// question_id empty violates minLength.
		_, _ = w.Write([]byte(`{"questions":[{"question_id":"","question_type":"scq"}]}`))
	})

	_, err := c.LoadQuestions(context.Background())
	var invalid *ErrInvalidPayload
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestMutateQuestion(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/questions/mutate/q1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok","mutated":true,"question":
			{"question_id":"q1","question_type":"integer","question_html":"How many now?","integer_answer":"13"}}`))
	})

	q, mutated, err := c.MutateQuestion(context.Background(), "q1")
	if err != nil {
		t.Fatalf("MutateQuestion: %v", err)
	}
	if !mutated || !q.Mutated {
		t.Error("expected mutated question")
	}
	if q.Key.Value != "13" {
		t.Errorf("key = %+v", q.Key)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DOST_API_URL", "http://example.test:9999")
	t.Setenv("DOST_API_TIMEOUT", "30s")

	cfg := ConfigFromEnv()
	if cfg.BaseURL != "http://example.test:9999" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate_RejectsBadScheme(t *testing.T) {
	cfg := Config{BaseURL: "ftp://nope", Timeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected scheme rejection")
	}
}
