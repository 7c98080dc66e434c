package popups

import (
	"testing"
	"time"
)

func TestDisplayDuration(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"default when unset", 0, 3500 * time.Millisecond},
		{"clamped low", 500 * time.Millisecond, 2000 * time.Millisecond},
		{"clamped high", 20 * time.Second, 7000 * time.Millisecond},
		{"in range", 4 * time.Second, 4 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payload{TTL: tt.ttl}
			if got := p.DisplayDuration(); got != tt.want {
				t.Errorf("DisplayDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnqueue_SingleSegmentVerbatim(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Type: "break", Message: "  Take five  ", TTL: 1000 * time.Millisecond})

	p, _, ok := q.Next()
	if !ok {
		t.Fatal("expected a payload")
	}
	if p.Message != "  Take five  " {
		t.Errorf("single-segment message must pass through verbatim, got %q", p.Message)
	}
	if p.TTL != 1000*time.Millisecond {
		t.Errorf("TTL = %v, want 1s", p.TTL)
	}
}

func TestEnqueue_SplitsOnLineBreaks(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Type: "note", Message: " first \n\n  second \nthird", TTL: 9 * time.Second})

	var got []Payload
	for {
		p, seq, ok := q.Next()
		if !ok {
			break
		}
		got = append(got, p)
		q.Expire(seq)
	}

	if len(got) != 3 {
		t.Fatalf("segments = %d, want 3", len(got))
	}
	want := []string{"first", "second", "third"}
	for i, p := range got {
		if p.Message != want[i] {
			t.Errorf("segment %d = %q, want %q", i, p.Message, want[i])
		}
		if p.TTL != 3*time.Second {
			t.Errorf("segment %d TTL = %v, want 3s", i, p.TTL)
		}
		if p.Type != "note" {
			t.Errorf("segment %d type = %q", i, p.Type)
		}
	}
}

func TestEnqueue_SplitTTLFloors(t *testing.T) {
	q := NewQueue()
	// 5000ms over 3 segments floors to 1666ms, then clamps to 2500ms.
	q.Enqueue(Payload{Message: "a\nb\nc", TTL: 5 * time.Second})

	p, _, _ := q.Next()
	if p.TTL != 2500*time.Millisecond {
		t.Errorf("TTL = %v, want 2.5s floor", p.TTL)
	}
}

func TestEnqueue_SplitDefaultTTL(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Message: "a\nb"})

	p, _, _ := q.Next()
	// 4000ms default split budget over two segments.
	if p.TTL != 2500*time.Millisecond {
		t.Errorf("TTL = %v, want 2.5s", p.TTL)
	}
}

func TestEnqueue_WhitespaceOnlyVerbatim(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Message: "   \n\t\n  "})

	// No non-empty segments means no split: the payload passes through whole.
	p, _, ok := q.Next()
	if !ok {
		t.Fatal("expected the payload to enqueue")
	}
	if p.Message != "   \n\t\n  " {
		t.Errorf("message = %q, want the original verbatim", p.Message)
	}
}

func TestQueue_SingleVisibleSlot(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Message: "one"})
	q.Enqueue(Payload{Message: "two"})

	p1, seq1, ok := q.Next()
	if !ok || p1.Message != "one" {
		t.Fatalf("first Next = %+v, %v", p1, ok)
	}

	// Slot occupied: no second payload until expiry.
	if _, _, ok := q.Next(); ok {
		t.Fatal("Next must refuse while a popup is displayed")
	}

	if !q.Expire(seq1) {
		t.Fatal("expected expiry to clear the slot")
	}
	p2, _, ok := q.Next()
	if !ok || p2.Message != "two" {
		t.Fatalf("second Next = %+v, %v", p2, ok)
	}
}

func TestQueue_StaleExpiryIgnored(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Message: "one"})
	q.Enqueue(Payload{Message: "two"})

	_, seq1, _ := q.Next()
	q.Expire(seq1)
	_, _, _ = q.Next()

	if q.Expire(seq1) {
		t.Error("stale sequence must not expire the current popup")
	}
	if q.Active() == nil {
		t.Error("current popup must survive a stale expiry")
	}
}

func TestQueue_Reset(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Payload{Message: "one"})
	q.Enqueue(Payload{Message: "two"})
	_, seq, _ := q.Next()

	q.Reset()

	if q.Active() != nil {
		t.Error("reset must clear the visible slot")
	}
	if q.PendingLen() != 0 {
		t.Error("reset must drop pending entries")
	}
	if q.Expire(seq) {
		t.Error("pre-reset sequence must be dead after reset")
	}
}

func TestFeed_NewestFirstAndBounded(t *testing.T) {
	f := NewFeed()
	for i := 0; i < FeedCapacity+25; i++ {
		f.Add("popup", "entry")
	}

	if f.Len() != FeedCapacity {
		t.Errorf("Len = %d, want %d", f.Len(), FeedCapacity)
	}

	f.Add("latest", "newest entry")
	entries := f.Entries()
	if entries[0].Event != "latest" {
		t.Errorf("first entry = %q, want newest", entries[0].Event)
	}
	if f.Len() != FeedCapacity {
		t.Errorf("Len = %d after overflow, want %d", f.Len(), FeedCapacity)
	}
}

func TestFeed_Clear(t *testing.T) {
	f := NewFeed()
	f.Add("popup", "x")
	f.Clear()
	if f.Len() != 0 {
		t.Errorf("Len = %d after clear, want 0", f.Len())
	}
}
