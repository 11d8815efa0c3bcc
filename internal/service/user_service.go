package service

import (
	"context"
	"fmt"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/session"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, userId, sessionId uuid.UUID) error
	IsActiveUser(ctx context.Context, userId uuid.UUID) (bool, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	media          IMediaService
	sessions       *session.Manager
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	media IMediaService,
	sessions *session.Manager,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		media:          media,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userId, apperr.ErrNotFound)
	}

	count, err := uow.NoteRepository().Count(ctx, specification.NoteOwnedByUser{UserID: userId})
	if err != nil {
		return nil, err
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Username:  user.Username,
		IsStaff:   user.IsStaff,
		NoteCount: count,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}, nil
}

// IsActiveUser is false for users that were deleted or deactivated after
// their session started.
func (s *userService) IsActiveUser(ctx context.Context, userId uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId}, specification.ActiveUsers{})
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// DeleteAccount removes the user's notes and then the user in one
// transaction. Images go after the commit so a rollback never leaves rows
// pointing at deleted files.
func (s *userService) DeleteAccount(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", userId, apperr.ErrNotFound)
	}

	notes, err := uow.NoteRepository().FindAll(ctx, specification.NoteOwnedByUser{UserID: userId})
	if err != nil {
		return err
	}
	if err := uow.NoteRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	for _, n := range notes {
		if err := s.media.Remove(ctx, n.Background); err != nil {
			s.logger.Warn("user", "failed to remove note image", map[string]interface{}{
				"note_id": n.Id,
				"key":     n.Background,
				"error":   err.Error(),
			})
		}
	}

	if err := s.sessions.Destroy(ctx, sessionId); err != nil {
		s.logger.Warn("user", "failed to destroy session", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}

	s.logger.Info("user", "account deleted", map[string]interface{}{
		"user_id":       userId.String(),
		"notes_removed": len(notes),
	})
	publishUserEvent(ctx, s.eventPublisher, s.logger, events.UserDeleted, userId, map[string]interface{}{
		"username": user.Username,
	})
	return nil
}
