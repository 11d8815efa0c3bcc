package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	// DeleteWhere removes every note matching specs and returns the count.
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	FindAllWithOwner(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteWithOwner, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
