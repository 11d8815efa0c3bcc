package contract

import (
	"context"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
)

// SessionRepository stores login sessions. Get returns (nil, nil) for an
// unknown or expired session.
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
