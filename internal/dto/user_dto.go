package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username  string `form:"username" json:"username" validate:"required,max=150"`
	Password1 string `form:"password1" json:"password1" validate:"required"`
	Password2 string `form:"password2" json:"password2" validate:"required"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=150"`
	Password string `form:"password" json:"password" validate:"required"`
	Next     string `form:"next" json:"next"`
}

// RegisterFormView never echoes passwords back.
type RegisterFormView struct {
	Username string `json:"username"`
}

type LoginFormView struct {
	Username string `json:"username"`
	Next     string `json:"next,omitempty"`
}

// AuthResult is what a successful register/login hands the controller so it
// can set the session cookie.
type AuthResult struct {
	UserId    uuid.UUID
	Username  string
	Token     string
	SessionId uuid.UUID
	ExpiresAt time.Time
}

type UserProfileResponse struct {
	Id        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	IsStaff   bool       `json:"is_staff"`
	NoteCount int64      `json:"note_count"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}
