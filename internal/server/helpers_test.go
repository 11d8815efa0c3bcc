package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"notekeeper-be/internal/bootstrap"
	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/server"
	"notekeeper-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	cookieName   = "session_id"
	testPassword = "correct-horse-battery"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	mediaRoot string
}

// newTestEnv boots the full app on a throwaway sqlite file. Options adjust
// the config before anything is built.
func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			AuditLogFilePath:   filepath.Join(dir, "audit.log"),
			CorsAllowedOrigins: "http://localhost",
			BodyLimit:          4 * 1024 * 1024,
		},
		Database: config.DatabaseConfig{
			Driver:     database.DriverSQLite,
			Connection: filepath.Join(dir, "test.db"),
		},
		Session: config.SessionConfig{
			Store:      "memory",
			Secret:     "test-secret",
			CookieName: cookieName,
			TTL:        time.Hour,
		},
		Storage: config.StorageConfig{
			Driver:        "local",
			MediaRoot:     filepath.Join(dir, "media"),
			MediaURL:      "/media",
			FallbackImage: "fallback.png",
			MaxUploadSize: 1024 * 1024,
		},
		Events: config.EventsConfig{
			Topic: "NOTE_EVENTS",
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	container, err := bootstrap.NewContainer(db, cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, container.AuditService.Consume(ctx))

	srv := server.New(cfg, container)
	return &testEnv{app: srv.GetApp(), db: db, mediaRoot: cfg.Storage.MediaRoot}
}

func (e *testEnv) do(t *testing.T, req *http.Request, session string) *http.Response {
	t.Helper()
	if session != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: session})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path, session string) *http.Response {
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil), session)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, session string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return e.do(t, req, session)
}

// postMultipart sends fields plus an optional background file.
func (e *testEnv) postMultipart(t *testing.T, path string, fields map[string]string, image []byte, session string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("background", "upload.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(t, req, session)
}

// register creates an account and returns its session token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp := e.postForm(t, "/users/register", url.Values{
		"username":  {username},
		"password1": {testPassword},
		"password2": {testPassword},
	}, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode, readBody(t, resp))
	return sessionCookie(t, resp)
}

func (e *testEnv) createNote(t *testing.T, session, title string, image []byte) *model.Note {
	t.Helper()
	resp := e.postMultipart(t, "/notes/new-note/", map[string]string{
		"title": title,
		"body":  "body of " + title,
	}, image, session)
	require.Equal(t, fiber.StatusFound, resp.StatusCode, readBody(t, resp))

	var n model.Note
	require.NoError(t, e.db.Where("title = ?", title).Order("id DESC").First(&n).Error)
	return &n
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	var u model.User
	require.NoError(t, e.db.Where("username = ?", username).First(&u).Error)
	return &u
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return string(b)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
