package memory

import (
	"context"
	"time"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Per-item expiry comes from the session itself; purge expired items
	// every 10 minutes
	c := cache.New(cache.NoExpiration, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		r.cache.Delete(session.Id.String())
		return nil
	}
	stored := *session
	r.cache.Set(session.Id.String(), &stored, ttl)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	if x, found := r.cache.Get(id.String()); found {
		s := *x.(*entity.Session)
		return &s, nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.cache.Delete(id.String())
	return nil
}
