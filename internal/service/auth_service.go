package service

import (
	"context"
	"fmt"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/session"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidLoginMessage = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	Logout(ctx context.Context, userId, sessionId uuid.UUID) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessions       *session.Manager
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *session.Manager,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Register creates the account and logs it in straight away.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error) {
	username := NormalizeUsername(req.Username)
	verr := apperr.NewValidationError()

	for _, msg := range validateUsername(username) {
		verr.Add("username", msg)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if !verr.Has("username") {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			verr.Add("username", "A user with that username already exists.")
		}
	}

	if req.Password1 != req.Password2 {
		verr.Add("password2", "The two password fields didn't match.")
	} else {
		for _, msg := range validatePassword(req.Password2, username) {
			verr.Add("password2", msg)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		LastLogin:    &now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same name
		if taken, _ := uow.UserRepository().Count(ctx, specification.ByUsername{Username: username}); taken > 0 {
			return nil, apperr.NewValidationError().Add("username", "A user with that username already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(ctx, events.UserRegistered, user.Id, map[string]interface{}{"username": user.Username})

	return s.startSession(ctx, user)
}

// Login checks credentials. Unknown users, wrong passwords and inactive
// accounts all get the same form error.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: NormalizeUsername(req.Username)})
	if err != nil {
		return nil, err
	}

	if user == nil {
		// keep timing close to the found-user path
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, apperr.NewValidationError().AddNonField(invalidLoginMessage)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.NewValidationError().AddNonField(invalidLoginMessage)
	}
	if !user.IsActive {
		return nil, apperr.NewValidationError().AddNonField(invalidLoginMessage)
	}

	now := time.Now()
	if err := uow.UserRepository().UpdateLastLogin(ctx, user.Id, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	s.publish(ctx, events.UserLogin, user.Id, map[string]interface{}{"username": user.Username})

	return s.startSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userId, sessionId uuid.UUID) error {
	if err := s.sessions.Destroy(ctx, sessionId); err != nil {
		return err
	}
	s.publish(ctx, events.UserLogout, userId, nil)
	return nil
}

func (s *authService) startSession(ctx context.Context, user *entity.User) (*dto.AuthResult, error) {
	token, sess, err := s.sessions.Create(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("auth", "session started", map[string]interface{}{
		"user_id":    user.Id.String(),
		"session_id": sess.Id.String(),
	})

	return &dto.AuthResult{
		UserId:    user.Id,
		Username:  user.Username,
		Token:     token,
		SessionId: sess.Id,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *authService) publish(ctx context.Context, eventType string, userId uuid.UUID, data map[string]interface{}) {
	publishUserEvent(ctx, s.eventPublisher, s.logger, eventType, userId, data)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
