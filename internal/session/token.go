package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	SessionId string `json:"sid"`
	UserId    string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies the HS256 tokens handed to clients.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

func (s *TokenSigner) Sign(sessionId, userId uuid.UUID, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionId: sessionId.String(),
		UserId:    userId.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	return token.SignedString(s.secret)
}

// Parse returns the session and user ids named by a valid, unexpired token.
func (s *TokenSigner) Parse(raw string) (uuid.UUID, uuid.UUID, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}

	sid, err := uuid.Parse(c.SessionId)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}
	uid, err := uuid.Parse(c.UserId)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}
	return sid, uid, nil
}
