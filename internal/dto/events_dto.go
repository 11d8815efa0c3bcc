package dto

import (
	"time"

	"github.com/google/uuid"
)

// NoteEventMessage travels over the in-process bus for every note lifecycle
// change.
type NoteEventMessage struct {
	Type       string    `json:"type"`
	NoteId     uint      `json:"note_id"`
	Slug       string    `json:"slug"`
	UserId     uuid.UUID `json:"user_id"`
	Background string    `json:"background"`
	OccurredAt time.Time `json:"occurred_at"`
}
