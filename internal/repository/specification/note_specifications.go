package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteOwnedByUser struct {
	UserID uuid.UUID
}

func (s NoteOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.user_id = ?", s.UserID)
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.slug = ?", s.Slug)
}

// NewestFirst orders notes by creation time, newest first. Ties fall back to
// id so equal timestamps still list deterministically.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("notes.created_at DESC").Order("notes.id DESC")
}

// OldestFirst picks the earliest note when several share a slug.
type OldestFirst struct{}

func (s OldestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("notes.created_at ASC").Order("notes.id ASC")
}
