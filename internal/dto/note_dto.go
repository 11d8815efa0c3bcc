package dto

import (
	"time"
)

// NoteForm is the user-editable part of a note. The owner is never part of
// it; it always comes from the session.
type NoteForm struct {
	Title string `form:"title" json:"title" validate:"required,max=255"`
	Body  string `form:"body" json:"body" validate:"required"`
	Slug  string `form:"slug" json:"slug" validate:"omitempty,max=255,slug"`
}

// NoteFormView is what a rendered create/edit form carries back.
type NoteFormView struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Slug       string `json:"slug"`
	Background string `json:"background,omitempty"`
	NoteSlug   string `json:"note_slug,omitempty"`
}

type NoteResponse struct {
	Id            uint      `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Slug          string    `json:"slug"`
	Background    string    `json:"background"`
	BackgroundURL string    `json:"background_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DeleteNoteRequest struct {
	NoteId string `form:"note_id" json:"note_id" validate:"required"`
}
