package server_test

import (
	"image/color"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/pkg/apperr"
	"notekeeper-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formResponse[T any] serverutils.BaseResponse[serverutils.FormData[T]]

func TestRegisterLogsInAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/users/register", url.Values{
		"username":  {"carol"},
		"password1": {testPassword},
		"password2": {testPassword},
	}, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/notes/", resp.Header.Get("Location"))
	token := sessionCookie(t, resp)

	resp = env.get(t, "/notes/", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	u := env.user(t, "carol")
	assert.True(t, u.IsActive)
	assert.NotEqual(t, testPassword, u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dave")

	cases := []struct {
		name  string
		form  url.Values
		field string
	}{
		{
			name:  "mismatch",
			form:  url.Values{"username": {"erin"}, "password1": {testPassword}, "password2": {testPassword + "x"}},
			field: "password2",
		},
		{
			name:  "too short and numeric",
			form:  url.Values{"username": {"erin"}, "password1": {"1234"}, "password2": {"1234"}},
			field: "password2",
		},
		{
			name:  "duplicate username",
			form:  url.Values{"username": {"dave"}, "password1": {testPassword}, "password2": {testPassword}},
			field: "username",
		},
		{
			name:  "bad characters",
			form:  url.Values{"username": {"erin smith!"}, "password1": {testPassword}, "password2": {testPassword}},
			field: "username",
		},
		{
			name:  "missing username",
			form:  url.Values{"password1": {testPassword}, "password2": {testPassword}},
			field: "username",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.postForm(t, "/users/register", tc.form, "")
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			out := decode[formResponse[dto.RegisterFormView]](t, resp)
			assert.NotEmpty(t, out.Data.Errors[tc.field])
			assert.Empty(t, resp.Header.Get("Set-Cookie"))
		})
	}
}

func TestLoginHonoursLocalNextOnly(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "frank")

	resp := env.postForm(t, "/users/login", url.Values{
		"username": {"frank"},
		"password": {testPassword},
		"next":     {"/notes/abc/edit/"},
	}, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/notes/abc/edit/", resp.Header.Get("Location"))
	sessionCookie(t, resp)

	resp = env.postForm(t, "/users/login", url.Values{
		"username": {"frank"},
		"password": {testPassword},
		"next":     {"//evil.example.com/"},
	}, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/notes/", resp.Header.Get("Location"))

	var u model.User
	require.NoError(t, env.db.Where("username = ?", "frank").First(&u).Error)
	assert.NotNil(t, u.LastLogin)
}

func TestLoginFailureRendersNonFieldError(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "grace")

	resp := env.postForm(t, "/users/login", url.Values{
		"username": {"grace"},
		"password": {"wrong-password"},
		"next":     {"/notes/"},
	}, "")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out := decode[formResponse[dto.LoginFormView]](t, resp)
	assert.NotEmpty(t, out.Data.Errors[apperr.NonFieldKey])
	assert.Equal(t, "grace", out.Data.Form.Username)
	assert.Equal(t, "/notes/", out.Data.Form.Next)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "heidi")
	require.NoError(t, env.db.Model(&model.User{}).Where("username = ?", "heidi").Update("is_active", false).Error)

	resp := env.postForm(t, "/users/login", url.Values{
		"username": {"heidi"},
		"password": {testPassword},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginFormCarriesNext(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/users/login?next=%2Fnotes%2F", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[formResponse[dto.LoginFormView]](t, resp)
	assert.Equal(t, "/notes/", out.Data.Form.Next)
}

func TestLogoutInvalidatesSessionToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ivan")

	resp := env.postForm(t, "/users/logout", url.Values{}, token)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/notes/", resp.Header.Get("Location"))

	// a copy of the old cookie no longer authenticates
	resp = env.get(t, "/notes/", token)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/users/login")
}

func TestForgedTokenIsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/notes/", "not.a.token")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestProfileCountsNotes(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "judy")
	env.createNote(t, token, "One", nil)
	env.createNote(t, token, "Two", nil)

	resp := env.get(t, "/users/me", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[serverutils.BaseResponse[dto.UserProfileResponse]](t, resp)
	assert.Equal(t, "judy", out.Data.Username)
	assert.Equal(t, int64(2), out.Data.NoteCount)
}

func TestDeleteAccountCascadesToNotesAndImages(t *testing.T) {
	env := newTestEnv(t)
	kim := env.register(t, "kim")
	other := env.register(t, "leo")

	withImage := env.createNote(t, kim, "Holiday", pngBytes(t, color.White))
	env.createNote(t, kim, "Shopping", nil)
	env.createNote(t, other, "Unrelated", nil)
	kimId := env.user(t, "kim").Id
	imagePath := filepath.Join(env.mediaRoot, withImage.Background)
	require.FileExists(t, imagePath)

	resp := env.postForm(t, "/users/delete", url.Values{}, kim)
	require.Equal(t, fiber.StatusFound, resp.StatusCode, readBody(t, resp))

	var notes int64
	env.db.Model(&model.Note{}).Where("user_id = ?", kimId).Count(&notes)
	assert.Zero(t, notes)

	var users int64
	env.db.Model(&model.User{}).Where("id = ?", kimId).Count(&users)
	assert.Zero(t, users)

	env.db.Model(&model.Note{}).Count(&notes)
	assert.Equal(t, int64(1), notes)

	assert.NoFileExists(t, imagePath)
	assert.FileExists(t, filepath.Join(env.mediaRoot, "fallback.png"))

	resp = env.get(t, "/notes/", kim)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestAdminListingRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	mallory := env.register(t, "mallory")
	admin := env.register(t, "nina")
	env.createNote(t, mallory, "Older", nil)
	env.createNote(t, admin, "Newer", nil)

	resp := env.get(t, "/admin/notes", mallory)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.get(t, "/admin/notes", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	require.NoError(t, env.db.Model(&model.User{}).Where("username = ?", "nina").Update("is_staff", true).Error)

	resp = env.get(t, "/admin/notes?limit=1", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[serverutils.BaseResponse[dto.AdminNoteListResponse]](t, resp)
	assert.Equal(t, int64(2), out.Data.Total)
	require.Len(t, out.Data.Notes, 1)
	assert.Equal(t, "Newer", out.Data.Notes[0].Title)
	assert.Equal(t, "nina", out.Data.Notes[0].Owner)

	resp = env.get(t, "/admin/notes?limit=500", admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOtherSessionsEndWhenAccountIsDeleted(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t, "olga")

	resp := env.postForm(t, "/users/login", url.Values{"username": {"olga"}, "password": {testPassword}}, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	second := sessionCookie(t, resp)
	olgaId := env.user(t, "olga").Id

	resp = env.postForm(t, "/users/delete", url.Values{}, first)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = env.get(t, "/notes/", second)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/users/login")

	resp = env.postMultipart(t, "/notes/new-note/", map[string]string{"title": "Ghost", "body": "x"}, nil, second)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/users/login")

	var orphans int64
	env.db.Model(&model.Note{}).Where("user_id = ?", olgaId).Count(&orphans)
	assert.Zero(t, orphans)
}

func TestDeactivatedUserSessionEnds(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ann")

	resp := env.get(t, "/notes/", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.Model(&model.User{}).Where("username = ?", "ann").Update("is_active", false).Error)

	resp = env.get(t, "/notes/", token)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/users/login")

	// reactivating does not revive the destroyed session
	require.NoError(t, env.db.Model(&model.User{}).Where("username = ?", "ann").Update("is_active", true).Error)
	resp = env.get(t, "/notes/", token)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestWildcardCorsOriginBoots(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.App.CorsAllowedOrigins = "*"
	})

	req := httptest.NewRequest(http.MethodGet, "/users/login", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	resp := env.do(t, req, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestConfiguredCorsOriginAllowsCredentials(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/users/login", nil)
	req.Header.Set("Origin", "http://localhost")
	resp := env.do(t, req, "")
	assert.Equal(t, "http://localhost", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
