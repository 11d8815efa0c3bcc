package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"
	"notekeeper-be/pkg/slug"

	"github.com/google/uuid"
)

type INoteService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteResponse, error)
	Detail(ctx context.Context, noteSlug string) (*dto.NoteResponse, error)
	Create(ctx context.Context, userId uuid.UUID, form *dto.NoteForm, background *multipart.FileHeader) (*dto.NoteResponse, error)
	LoadForEdit(ctx context.Context, userId uuid.UUID, noteSlug string) (*dto.NoteFormView, error)
	Update(ctx context.Context, userId uuid.UUID, noteSlug string, form *dto.NoteForm, background *multipart.FileHeader) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, noteId uint) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	media            IMediaService
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	media IMediaService,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		media:            media,
		publisherService: publisherService,
		logger:           log,
	}
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.NoteOwnedByUser{UserID: userId},
		specification.NewestFirst{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, c.toResponse(n))
	}
	return res, nil
}

// Detail is public: any note can be read by slug. Slugs are not unique; the
// oldest match wins.
func (c *noteService) Detail(ctx context.Context, noteSlug string) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.BySlug{Slug: noteSlug},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note %q: %w", noteSlug, apperr.ErrNotFound)
	}
	return c.toResponse(note), nil
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, form *dto.NoteForm, background *multipart.FileHeader) (*dto.NoteResponse, error) {
	note := entity.Note{
		Title:      form.Title,
		Body:       form.Body,
		Slug:       form.Slug,
		Background: c.media.Fallback(),
		UserId:     userId,
	}
	slug.Ensure(&note.Slug, note.Title)

	if background != nil {
		key, err := c.media.SaveImage(ctx, background)
		if err != nil {
			return nil, err
		}
		note.Background = key
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		c.discardUpload(ctx, background, note.Background)
		return nil, err
	}

	c.publish(ctx, events.NoteCreated, &note)

	return c.toResponse(&note), nil
}

func (c *noteService) LoadForEdit(ctx context.Context, userId uuid.UUID, noteSlug string) (*dto.NoteFormView, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow, userId, noteSlug)
	if err != nil {
		return nil, err
	}

	return &dto.NoteFormView{
		Title:      note.Title,
		Body:       note.Body,
		Slug:       note.Slug,
		Background: note.Background,
		NoteSlug:   note.Slug,
	}, nil
}

// Update applies a validated form to the caller's note. A new image is
// stored before the row changes; the old one is removed only after the row
// points at the new key.
func (c *noteService) Update(ctx context.Context, userId uuid.UUID, noteSlug string, form *dto.NoteForm, background *multipart.FileHeader) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findOwned(ctx, uow, userId, noteSlug)
	if err != nil {
		return nil, err
	}

	oldBackground := note.Background
	if background != nil {
		key, err := c.media.SaveImage(ctx, background)
		if err != nil {
			return nil, err
		}
		note.Background = key
	}

	note.Title = form.Title
	note.Body = form.Body
	// A blank slug field keeps the current slug
	if strings.TrimSpace(form.Slug) != "" {
		note.Slug = form.Slug
	}
	slug.Ensure(&note.Slug, note.Title)
	note.UpdatedAt = time.Now()

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		c.discardUpload(ctx, background, note.Background)
		return nil, err
	}

	if background != nil {
		if err := c.media.Remove(ctx, oldBackground); err != nil {
			return nil, err
		}
	}

	c.publish(ctx, events.NoteUpdated, note)

	return c.toResponse(note), nil
}

// Delete removes the caller's note with the given id and its image. An id
// that matches nothing the caller owns is a no-op.
func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, noteId uint) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	owned := []specification.Specification{
		specification.ByID{ID: noteId},
		specification.NoteOwnedByUser{UserID: userId},
	}

	note, err := uow.NoteRepository().FindOne(ctx, owned...)
	if err != nil {
		return err
	}
	if note == nil {
		c.logger.Debug("note", "delete matched nothing", map[string]interface{}{
			"note_id": noteId,
			"user_id": userId.String(),
		})
		return nil
	}

	if err := c.media.Remove(ctx, note.Background); err != nil {
		return err
	}

	if _, err := uow.NoteRepository().DeleteWhere(ctx, owned...); err != nil {
		return err
	}

	c.publish(ctx, events.NoteDeleted, note)
	return nil
}

func (c *noteService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, noteSlug string) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.BySlug{Slug: noteSlug},
		specification.NoteOwnedByUser{UserID: userId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note %q: %w", noteSlug, apperr.ErrNotFound)
	}
	return note, nil
}

// discardUpload removes an image stored for a write that then failed.
func (c *noteService) discardUpload(ctx context.Context, background *multipart.FileHeader, key string) {
	if background == nil {
		return
	}
	if err := c.media.Remove(ctx, key); err != nil {
		c.logger.Warn("note", "failed to discard orphaned upload", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// publish never fails the request; the note is already saved.
func (c *noteService) publish(ctx context.Context, eventType string, note *entity.Note) {
	msg := dto.NoteEventMessage{
		Type:       eventType,
		NoteId:     note.Id,
		Slug:       note.Slug,
		UserId:     note.UserId,
		Background: note.Background,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err == nil {
		err = c.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		c.logger.Warn("note", "failed to publish note event", map[string]interface{}{
			"type":    eventType,
			"note_id": note.Id,
			"error":   err.Error(),
		})
	}
}

func (c *noteService) toResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:            n.Id,
		Title:         n.Title,
		Body:          n.Body,
		Slug:          n.Slug,
		Background:    n.Background,
		BackgroundURL: c.media.URL(n.Background),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}
