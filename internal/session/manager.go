// Package session ties login sessions stored server-side to the signed
// tokens clients carry in a cookie.
package session

import (
	"context"
	"fmt"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/contract"

	"github.com/google/uuid"
)

type Manager struct {
	repo   contract.SessionRepository
	signer *TokenSigner
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(repo contract.SessionRepository, signer *TokenSigner, ttl time.Duration) *Manager {
	return &Manager{
		repo:   repo,
		signer: signer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a session for userId and returns the token to hand out.
func (m *Manager) Create(ctx context.Context, userId uuid.UUID) (string, *entity.Session, error) {
	now := m.now()
	s := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.repo.Save(ctx, s); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := m.signer.Sign(s.Id, s.UserId, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		_ = m.repo.Delete(ctx, s.Id)
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, s, nil
}

// Resolve returns the live session a token refers to, or ErrInvalidToken.
func (m *Manager) Resolve(ctx context.Context, token string) (*entity.Session, error) {
	sid, uid, err := m.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	s, err := m.repo.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if s == nil || s.UserId != uid || s.Expired(m.now()) {
		return nil, ErrInvalidToken
	}
	return s, nil
}

func (m *Manager) Destroy(ctx context.Context, sessionId uuid.UUID) error {
	return m.repo.Delete(ctx, sessionId)
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}
