package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type SessionRepository struct {
	rdb *goredis.Client
}

func NewSessionRepository(rdb *goredis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

type sessionRecord struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, session.Id)
	}

	data, err := json.Marshal(sessionRecord{
		Id:        session.Id,
		UserId:    session.UserId,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.rdb.Set(ctx, keyPrefix+session.Id.String(), data, ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &entity.Session{
		Id:        rec.Id,
		UserId:    rec.UserId,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.rdb.Del(ctx, keyPrefix+id.String()).Err()
}
