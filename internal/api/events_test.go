package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSSESource_Subscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if r.URL.Query().Get("client_id") == "" {
			t.Error("expected a client_id query parameter")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)

		_, _ = io.WriteString(w, ": keep-alive\n\n")
		_, _ = io.WriteString(w, "event: popup\ndata: {\"type\":\"break\",\"message\":\"Stand up\",\"ttl\":3000}\n\n")
		_, _ = io.WriteString(w, "data: {\"n\":1}\n\n")
		fl.Flush()
	}))
	defer server.Close()

	src := NewSSESource(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, zerolog.Nop())
	ch, err := src.Subscribe(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ev, ok := <-ch
	if !ok {
		t.Fatal("expected first event")
	}
	if ev.Name != "popup" {
		t.Errorf("name = %q, want popup", ev.Name)
	}
	p, ok := ev.Popup()
	if !ok {
		t.Fatal("expected a decodable popup")
	}
	if p.Message != "Stand up" || p.TTL != 3*time.Second {
		t.Errorf("payload = %+v", p)
	}

	ev, ok = <-ch
	if !ok {
		t.Fatal("expected second event")
	}
	if ev.Name != "message" {
		t.Errorf("name = %q, want default message", ev.Name)
	}

	// Handler returned: the stream ends and the channel closes.
	if _, ok := <-ch; ok {
		t.Error("expected channel close after stream end")
	}
}

func TestSSESource_RefusedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewSSESource(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, zerolog.Nop())
	_, err := src.Subscribe(context.Background(), "s1")
	var apiErr *ErrAPI
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want ErrAPI", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d", apiErr.Status)
	}
}

func TestEventPopup_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{"wrong name", Event{Name: "heartbeat", Data: json.RawMessage(`{"message":"x"}`)}},
		{"empty message", Event{Name: "popup", Data: json.RawMessage(`{"message":""}`)}},
		{"missing message", Event{Name: "popup", Data: json.RawMessage(`{"type":"break"}`)}},
		{"negative ttl", Event{Name: "popup", Data: json.RawMessage(`{"message":"x","ttl":-5}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.event.Popup(); ok {
				t.Error("expected rejection")
			}
		})
	}
}

func TestEventPopup_DefaultTTL(t *testing.T) {
	ev := Event{Name: "popup", Data: json.RawMessage(`{"message":"no ttl"}`)}
	p, ok := ev.Popup()
	if !ok {
		t.Fatal("expected a popup")
	}
	if p.TTL != 0 {
		t.Errorf("TTL = %v, want 0 (unset)", p.TTL)
	}
}

func TestEventSummary(t *testing.T) {
	ev := Event{Name: "popup", Data: json.RawMessage(`{"message":"hi"}`)}
	if got := ev.Summary(); got != `popup {"message":"hi"}` {
		t.Errorf("Summary = %q", got)
	}

	empty := Event{Name: "ping"}
	if got := empty.Summary(); got != "ping" {
		t.Errorf("Summary = %q", got)
	}
}
