package popups

import "time"

// FeedCapacity bounds the diagnostic feed; the oldest entries are dropped
// beyond it.
const FeedCapacity = 200

// FeedEntry is one line of the always-on diagnostic feed.
type FeedEntry struct {
	At    time.Time
	Event string
	Text  string
}

// Feed mirrors every inbound event, newest first, independent of the popup
// queue's state. It is a side channel only: nothing reads it back into the
// delivery path.
type Feed struct {
	entries []FeedEntry
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Add prepends an entry, evicting the oldest beyond FeedCapacity.
func (f *Feed) Add(event, text string) {
	f.entries = append([]FeedEntry{{At: time.Now(), Event: event, Text: text}}, f.entries...)
	if len(f.entries) > FeedCapacity {
		f.entries = f.entries[:FeedCapacity]
	}
}

// Entries returns the feed newest first.
func (f *Feed) Entries() []FeedEntry {
	return f.entries
}

// Len returns the number of retained entries.
func (f *Feed) Len() int {
	return len(f.entries)
}

// Clear empties the feed.
func (f *Feed) Clear() {
	f.entries = nil
}
