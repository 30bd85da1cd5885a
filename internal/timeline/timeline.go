// Package timeline reconciles a REST-fetched snapshot with live push
// events into one bounded, time-ordered sequence per view. It owns the
// append / patch-by-id / replace-field merge decisions; every view
// controller feeds exactly one timeline (or transcript) per topic.
package timeline

import (
	"sort"
	"sync"
	"time"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// Kind classifies a timeline entry for rendering.
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindTool       Kind = "tool"
	KindStatus     Kind = "status"
)

// Entry is a core-owned timeline row. Timestamp is a lexically sortable
// ISO-8601 string: REST-replayed history and live events interleave, so
// ordering comes from the timestamp key, not arrival order.
type Entry struct {
	ID        types.EntryID
	Timestamp string
	Kind      Kind
	Label     string
	Content   string

	// seq is the insertion tiebreaker for entries sharing a timestamp.
	seq int64
}

// Now returns the current time in the backend's timestamp form.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Timeline is a fixed-capacity entry buffer. Insertion beyond the cap
// evicts the oldest entry by the rendered ordering.
type Timeline struct {
	mu      sync.Mutex
	cap     int
	entries []Entry
	nextSeq int64
}

// New creates a timeline holding at most capacity entries.
func New(capacity int) *Timeline {
	return &Timeline{cap: capacity}
}

// Seed replaces the buffer with a snapshot, preserving snapshot order.
// Re-seeding is the periodic-refresh reconcile path: the authoritative
// fetch wins over anything accumulated locally.
func (t *Timeline) Seed(entries []Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = t.entries[:0]
	for _, e := range entries {
		t.insertLocked(e)
	}
}

// Append adds one entry, generating a local ID when the source event
// carried none and stamping the current time when the event supplied no
// timestamp. Evicts the oldest entry when the buffer exceeds its cap.
// Returns the entry as inserted.
func (t *Timeline) Append(e Entry) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(e)
}

// PatchByID merges partial content into the entry carrying id. A delta
// appends the fragment to the accumulating content; a non-delta replaces
// the content wholesale (last-write-wins, so replaying a full-content
// event is a no-op). An absent id falls back to append.
func (t *Timeline) PatchByID(id types.EntryID, content string, delta bool, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].ID == id {
			if delta {
				t.entries[i].Content += content
			} else {
				t.entries[i].Content = content
			}
			return
		}
	}

	e.ID = id
	e.Content = content
	t.insertLocked(e)
}

// Entries returns the rendered view: a stable sort by timestamp with
// insertion order breaking ties.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Len returns the current number of buffered entries.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Timeline) insertLocked(e Entry) Entry {
	if e.ID == "" {
		e.ID = types.NewEntryID()
	}
	if e.Timestamp == "" {
		e.Timestamp = Now()
	}
	e.seq = t.nextSeq
	t.nextSeq++
	t.entries = append(t.entries, e)

	if t.cap > 0 && len(t.entries) > t.cap {
		t.evictOldestLocked()
	}
	return e
}

// evictOldestLocked removes the entry that sorts first in the rendered
// ordering, so eviction is FIFO with respect to what the operator sees.
func (t *Timeline) evictOldestLocked() {
	oldest := 0
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i].Timestamp < t.entries[oldest].Timestamp ||
			(t.entries[i].Timestamp == t.entries[oldest].Timestamp && t.entries[i].seq < t.entries[oldest].seq) {
			oldest = i
		}
	}
	t.entries = append(t.entries[:oldest], t.entries[oldest+1:]...)
}
