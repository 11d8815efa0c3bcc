package dto

import (
	"time"
)

type AdminNoteListRequest struct {
	Limit  int `query:"limit" json:"limit" validate:"omitempty,gte=1,lte=200"`
	Offset int `query:"offset" json:"offset" validate:"gte=0"`
}

type AdminNoteResponse struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	Owner     string    `json:"owner"`
}

type AdminNoteListResponse struct {
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
	Notes  []*AdminNoteResponse `json:"notes"`
}
