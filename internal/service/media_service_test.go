package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestMedia(t *testing.T, maxSize int64) (IMediaService, string) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocalStorage(root, "/media")
	require.NoError(t, err)
	return NewMediaService(store, "fallback.png", maxSize), root
}

// fileHeader builds a *multipart.FileHeader the way fiber hands one over.
func fileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(backgroundField, "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[backgroundField][0]
}

func TestEnsureFallbackIsIdempotent(t *testing.T) {
	media, root := newTestMedia(t, 0)
	ctx := context.Background()

	require.NoError(t, media.EnsureFallback(ctx))
	path := filepath.Join(root, "fallback.png")
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o644))
	require.NoError(t, media.EnsureFallback(ctx))
	kept, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(kept))
	assert.NotEmpty(t, first)
}

func TestSaveImage(t *testing.T) {
	media, root := newTestMedia(t, 1024)
	ctx := context.Background()

	key, err := media.SaveImage(ctx, fileHeader(t, pngHeader))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(key))
	assert.FileExists(t, filepath.Join(root, key))
	assert.Equal(t, "/media/"+key, media.URL(key))

	_, err = media.SaveImage(ctx, fileHeader(t, []byte("plain text, not a picture")))
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields[backgroundField])

	_, err = media.SaveImage(ctx, fileHeader(t, append(pngHeader, make([]byte, 2048)...)))
	require.ErrorAs(t, err, &verr)
}

func TestSaveImageRejectsSVG(t *testing.T) {
	media, root := newTestMedia(t, 1024)
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.cookie)</script></svg>`)

	_, err := media.SaveImage(context.Background(), fileHeader(t, svg))
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields[backgroundField])

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImageAcceptsGIF(t *testing.T) {
	media, _ := newTestMedia(t, 1024)

	key, err := media.SaveImage(context.Background(), fileHeader(t, []byte("GIF89a\x01\x00\x01\x00")))
	require.NoError(t, err)
	assert.Equal(t, ".gif", filepath.Ext(key))
}

func TestRemove(t *testing.T) {
	media, root := newTestMedia(t, 0)
	ctx := context.Background()
	require.NoError(t, media.EnsureFallback(ctx))

	require.NoError(t, media.Remove(ctx, "fallback.png"))
	assert.FileExists(t, filepath.Join(root, "fallback.png"))

	require.NoError(t, media.Remove(ctx, "gone.png"))
	require.NoError(t, media.Remove(ctx, ""))

	key, err := media.SaveImage(ctx, fileHeader(t, pngHeader))
	require.NoError(t, err)
	require.NoError(t, media.Remove(ctx, key))
	assert.NoFileExists(t, filepath.Join(root, key))
}
