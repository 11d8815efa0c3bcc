package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uint
	Title      string
	Body       string
	Slug       string
	Background string
	UserId     uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NoteWithOwner is the admin listing row.
type NoteWithOwner struct {
	Note
	OwnerUsername string
}
