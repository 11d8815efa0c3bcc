package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"

	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const backgroundField = "background"

// rasterImageTypes are the only uploads accepted; SVG and other vector
// formats are rejected.
var rasterImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}

// IMediaService stores note background images. The fallback image is shared
// by every note without an upload and is never removed.
type IMediaService interface {
	EnsureFallback(ctx context.Context) error
	SaveImage(ctx context.Context, file *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, key string) error
	IsFallback(key string) bool
	Fallback() string
	URL(key string) string
}

type mediaService struct {
	storage       storage.Storage
	fallback      string
	maxUploadSize int64
}

func NewMediaService(store storage.Storage, fallback string, maxUploadSize int64) IMediaService {
	return &mediaService{
		storage:       store,
		fallback:      fallback,
		maxUploadSize: maxUploadSize,
	}
}

// EnsureFallback writes a plain placeholder image under the fallback key
// when the store does not have one yet.
func (s *mediaService) EnsureFallback(ctx context.Context) error {
	ok, err := s.storage.Exists(ctx, s.fallback)
	if err != nil {
		return &apperr.FilesystemError{Op: "stat", Key: s.fallback, Err: err}
	}
	if ok {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	if err := s.storage.Save(ctx, s.fallback, &buf, int64(buf.Len()), "image/png"); err != nil {
		return &apperr.FilesystemError{Op: "save", Key: s.fallback, Err: err}
	}
	return nil
}

// SaveImage checks that the upload really is an image and stores it under a
// fresh key. Rejected uploads come back as a *apperr.ValidationError on the
// background field.
func (s *mediaService) SaveImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file.Size == 0 {
		return "", apperr.NewValidationError().Add(backgroundField, "The submitted file is empty.")
	}
	if s.maxUploadSize > 0 && file.Size > s.maxUploadSize {
		return "", apperr.NewValidationError().Add(backgroundField,
			fmt.Sprintf("Ensure the file is at most %d bytes (it has %d).", s.maxUploadSize, file.Size))
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to sniff upload: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), rasterImageTypes...) {
		return "", apperr.NewValidationError().Add(backgroundField,
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	key := uuid.NewString() + mtype.Extension()
	if err := s.storage.Save(ctx, key, f, file.Size, mtype.String()); err != nil {
		return "", &apperr.FilesystemError{Op: "save", Key: key, Err: err}
	}
	return key, nil
}

// Remove deletes a stored image. The fallback and already-missing objects
// are left alone.
func (s *mediaService) Remove(ctx context.Context, key string) error {
	if key == "" || s.IsFallback(key) {
		return nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return &apperr.FilesystemError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *mediaService) IsFallback(key string) bool {
	return key == s.fallback
}

func (s *mediaService) Fallback() string {
	return s.fallback
}

func (s *mediaService) URL(key string) string {
	return s.storage.URL(key)
}
