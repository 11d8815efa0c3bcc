package service

import (
	"context"
	"fmt"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultAdminPageSize = 50

type IAdminService interface {
	ListNotes(ctx context.Context, userId uuid.UUID, req *dto.AdminNoteListRequest) (*dto.AdminNoteListResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// ListNotes shows every user's notes, newest first. Only staff may call it.
func (s *adminService) ListNotes(ctx context.Context, userId uuid.UUID, req *dto.AdminNoteListRequest) (*dto.AdminNoteListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	caller, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId}, specification.ActiveUsers{})
	if err != nil {
		return nil, err
	}
	if caller == nil || !caller.IsStaff {
		s.logger.Warn("admin", "non-staff tried the admin listing", map[string]interface{}{
			"user_id": userId.String(),
		})
		return nil, fmt.Errorf("admin note listing: %w", apperr.ErrForbidden)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultAdminPageSize
	}

	total, err := uow.NoteRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := uow.NoteRepository().FindAllWithOwner(ctx,
		specification.NewestFirst{},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	if err != nil {
		return nil, err
	}

	notes := make([]*dto.AdminNoteResponse, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, &dto.AdminNoteResponse{
			Id:        r.Id,
			Title:     r.Title,
			Slug:      r.Slug,
			CreatedAt: r.CreatedAt,
			Owner:     r.OwnerUsername,
		})
	}

	return &dto.AdminNoteListResponse{
		Total:  total,
		Limit:  limit,
		Offset: req.Offset,
		Notes:  notes,
	}, nil
}
