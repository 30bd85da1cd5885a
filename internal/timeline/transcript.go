package timeline

import (
	"sync"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// Transcript holds the message view of one chat or assistant session.
// Messages are never reordered once inserted; streaming deltas and
// finalization events mutate the matching message in place.
type Transcript struct {
	mu       sync.Mutex
	messages []types.Message
	index    map[types.MessageID]int

	// lastSeq tracks the highest applied delta sequence number per
	// message. Delta delivery is at-most-once per connection but a
	// silent reconnect can replay; deltas carrying a sequence number at
	// or below the high-water mark are dropped. Deltas without one
	// apply unconditionally.
	lastSeq map[types.MessageID]int64
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		index:   make(map[types.MessageID]int),
		lastSeq: make(map[types.MessageID]int64),
	}
}

// Seed replaces the transcript with the REST snapshot in snapshot order.
func (tr *Transcript) Seed(messages []types.Message) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.messages = tr.messages[:0]
	tr.index = make(map[types.MessageID]int, len(messages))
	tr.lastSeq = make(map[types.MessageID]int64)
	for _, msg := range messages {
		tr.index[msg.ID] = len(tr.messages)
		tr.messages = append(tr.messages, msg)
	}
}

// ApplyDelta appends a streaming token fragment to the message with the
// given ID. An unknown ID falls back to appending a new streaming
// message. seq <= 0 means the event carried no sequence number.
func (tr *Transcript) ApplyDelta(id types.MessageID, token string, seq int64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if seq > 0 {
		if seq <= tr.lastSeq[id] {
			return
		}
		tr.lastSeq[id] = seq
	}

	if i, ok := tr.index[id]; ok {
		tr.messages[i].Content += token
		tr.messages[i].Status = "streaming"
		return
	}
	tr.appendLocked(types.Message{
		ID:      id,
		Role:    "assistant",
		Content: token,
		Status:  "streaming",
	})
}

// ApplyFinal replaces the full content of the message with the given ID
// and marks it final. Replaying the same final event is a no-op content
// replace, never a duplicate entry.
func (tr *Transcript) ApplyFinal(id types.MessageID, content string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if i, ok := tr.index[id]; ok {
		tr.messages[i].Content = content
		tr.messages[i].Status = "final"
		return
	}
	tr.appendLocked(types.Message{
		ID:      id,
		Role:    "assistant",
		Content: content,
		Status:  "final",
	})
}

// Append adds a message with a known-new ID (e.g. the user message the
// operator just posted). Duplicate IDs patch instead of appending.
func (tr *Transcript) Append(msg types.Message) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if i, ok := tr.index[msg.ID]; ok {
		tr.messages[i] = msg
		return
	}
	tr.appendLocked(msg)
}

// Messages returns a copy of the transcript in insertion order.
func (tr *Transcript) Messages() []types.Message {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	out := make([]types.Message, len(tr.messages))
	copy(out, tr.messages)
	return out
}

// Len returns the number of messages.
func (tr *Transcript) Len() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.messages)
}

func (tr *Transcript) appendLocked(msg types.Message) {
	if msg.CreatedAt == "" {
		msg.CreatedAt = Now()
	}
	tr.index[msg.ID] = len(tr.messages)
	tr.messages = append(tr.messages, msg)
}
