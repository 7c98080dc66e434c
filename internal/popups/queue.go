package popups

import (
	"strings"
	"time"
)

// TTL and display-duration rules, in milliseconds on the wire.
const (
	defaultSplitTTL   = 4000 * time.Millisecond
	minSegmentTTL     = 2500 * time.Millisecond
	defaultDisplayTTL = 3500 * time.Millisecond
	minDisplayTTL     = 2000 * time.Millisecond
	maxDisplayTTL     = 7000 * time.Millisecond
)

// Payload is one popup notification as received from the push channel.
// TTL <= 0 means the sender did not specify one.
type Payload struct {
	Type    string
	Message string
	TTL     time.Duration
}

// DisplayDuration returns how long the payload stays in the visible slot:
// clamp(ttl ?? 3500ms, 2000ms, 7000ms).
func (p Payload) DisplayDuration() time.Duration {
	d := p.TTL
	if d <= 0 {
		d = defaultDisplayTTL
	}
	if d < minDisplayTTL {
		return minDisplayTTL
	}
	if d > maxDisplayTTL {
		return maxDisplayTTL
	}
	return d
}

// Queue serializes popup payloads into a single visible slot, strictly in
// enqueue order. It holds no timers itself: the owner dequeues one payload
// at a time and waits out its display duration before taking the next.
type Queue struct {
	pending []Payload
	active  *Payload
	seq     int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue splits a payload's message on line breaks into trimmed, non-empty
// segments. Multi-segment messages share the original TTL (default 4000ms)
// divided evenly, floored, and clamped to at least 2500ms per segment; each
// segment becomes an independent entry carrying the other fields unchanged.
// Never blocks.
func (q *Queue) Enqueue(p Payload) {
	parts := splitMessage(p.Message)
	if len(parts) <= 1 {
		q.pending = append(q.pending, p)
		return
	}

	ttl := p.TTL
	if ttl <= 0 {
		ttl = defaultSplitTTL
	}
	per := time.Duration(ttl.Milliseconds()/int64(len(parts))) * time.Millisecond
	if per < minSegmentTTL {
		per = minSegmentTTL
	}
	for _, part := range parts {
		q.pending = append(q.pending, Payload{
			Type:    p.Type,
			Message: part,
			TTL:     per,
		})
	}
}

// Next promotes the head of the queue into the visible slot and returns it
// with a sequence number identifying this display. It returns ok=false when
// a popup is already displayed or the queue is empty.
func (q *Queue) Next() (p Payload, seq int, ok bool) {
	if q.active != nil || len(q.pending) == 0 {
		return Payload{}, 0, false
	}
	head := q.pending[0]
	q.pending = q.pending[1:]
	q.active = &head
	q.seq++
	return head, q.seq, true
}

// Expire clears the visible slot if seq identifies the currently displayed
// popup. Stale sequence numbers are ignored.
func (q *Queue) Expire(seq int) bool {
	if q.active == nil || seq != q.seq {
		return false
	}
	q.active = nil
	return true
}

// Active returns the displayed payload, or nil when the slot is empty.
func (q *Queue) Active() *Payload {
	return q.active
}

// PendingLen returns the number of queued, not yet displayed entries.
func (q *Queue) PendingLen() int {
	return len(q.pending)
}

// Reset drops everything: the visible slot and all pending entries.
func (q *Queue) Reset() {
	q.pending = nil
	q.active = nil
	q.seq++
}

func splitMessage(msg string) []string {
	var parts []string
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return parts
}
