// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type SessionID string
type MessageID string
type EntryID string
type ActionID string

// NewEntryID generates a local identifier for a timeline entry whose
// source event carried none.
func NewEntryID() EntryID {
	return EntryID(uuid.New().String())
}
