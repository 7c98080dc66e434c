package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ritankar/dost/internal/popups"
)

// Event is one named push event with its raw payload. Only "popup" has a
// dedicated handler in the flow; everything else is logged and dropped.
type Event struct {
	Name string
	Data json.RawMessage
}

// Popup decodes and validates a popup payload. ok is false for non-popup
// events and for payloads that fail the popup schema.
func (e Event) Popup() (popups.Payload, bool) {
	if e.Name != "popup" {
		return popups.Payload{}, false
	}
	if err := validatePayload(popupSchema, "push:popup", e.Data); err != nil {
		return popups.Payload{}, false
	}
	var wire struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		TTL     int64  `json:"ttl"`
	}
	if err := json.Unmarshal(e.Data, &wire); err != nil {
		return popups.Payload{}, false
	}
	return popups.Payload{
		Type:    wire.Type,
		Message: wire.Message,
		TTL:     time.Duration(wire.TTL) * time.Millisecond,
	}, true
}

// Summary renders the event for the diagnostic feed.
func (e Event) Summary() string {
	data := strings.TrimSpace(string(e.Data))
	if data == "" || data == "null" {
		return e.Name
	}
	return fmt.Sprintf("%s %s", e.Name, data)
}

// EventSource is the push-event channel, subscribed per session id. The
// returned channel is closed when the stream ends or ctx is canceled.
type EventSource interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan Event, error)
}

// SSESource subscribes to the backend's server-sent event stream for a
// session. Frames follow the standard "event:"/"data:" format.
type SSESource struct {
	base   string
	client *http.Client
	log    zerolog.Logger
}

var _ EventSource = (*SSESource)(nil)

// NewSSESource creates an SSESource for the given Config. The stream itself
// carries no timeout; only dialing is bounded by cfg.Timeout.
func NewSSESource(cfg Config, log zerolog.Logger) *SSESource {
	return &SSESource{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: cfg.Timeout},
		},
		log: log,
	}
}

// Subscribe joins the session's event stream. Events are delivered in
// arrival order; the reader goroutine exits when the server closes the
// stream or ctx is canceled.
func (s *SSESource) Subscribe(ctx context.Context, sessionID string) (<-chan Event, error) {
	endpoint := fmt.Sprintf("%s/session/%s/events?client_id=%s",
		s.base, url.PathEscape(sessionID), uuid.New().String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build subscribe request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &ErrAPI{Status: resp.StatusCode, Message: "event stream refused"}
	}

	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		defer func() { _ = resp.Body.Close() }()
		s.readLoop(ctx, resp, ch, sessionID)
	}()
	return ch, nil
}

func (s *SSESource) readLoop(ctx context.Context, resp *http.Response, ch chan<- Event, sessionID string) {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	name := "message"
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				ev := Event{Name: name, Data: json.RawMessage(data.String())}
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			}
			name = "message"
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.log.Warn().Str("session_id", sessionID).Err(err).Msg("event stream closed")
	}
}
