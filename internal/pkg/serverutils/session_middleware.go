package serverutils

import (
	"context"
	"net/url"
	"strings"
	"time"

	"notekeeper-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"

	LoginURL = "/users/login"
)

// ActiveUserChecker reports whether a session's user still exists and may
// sign in.
type ActiveUserChecker interface {
	IsActiveUser(ctx context.Context, userId uuid.UUID) (bool, error)
}

// SessionMiddleware resolves the session token from the cookie or a Bearer
// header. Anonymous requests pass through untouched; RequireAuth gates.
// Sessions of deleted or deactivated users are destroyed on sight.
func SessionMiddleware(mgr *session.Manager, users ActiveUserChecker, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(cookieName)
		if token == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				token = authHeader[7:]
			}
		}
		if token == "" {
			return ctx.Next()
		}

		s, err := mgr.Resolve(ctx.UserContext(), token)
		if err != nil {
			// stale or forged cookie: drop it and carry on anonymously
			ClearSessionCookie(ctx, cookieName)
			return ctx.Next()
		}

		active, err := users.IsActiveUser(ctx.UserContext(), s.UserId)
		if err != nil {
			return err
		}
		if !active {
			_ = mgr.Destroy(ctx.UserContext(), s.Id)
			ClearSessionCookie(ctx, cookieName)
			return ctx.Next()
		}

		ctx.Locals(LocalUserID, s.UserId.String())
		ctx.Locals(LocalSessionID, s.Id.String())
		return ctx.Next()
	}
}

// RequireAuth redirects anonymous requests to the login page, remembering
// where they were headed in ?next=.
func RequireAuth(ctx *fiber.Ctx) error {
	if _, ok := CurrentUserID(ctx); ok {
		return ctx.Next()
	}
	return ctx.Redirect(LoginURL + "?next=" + url.QueryEscape(ctx.OriginalURL()))
}

func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	return localUUID(ctx, LocalUserID)
}

func CurrentSessionID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	return localUUID(ctx, LocalSessionID)
}

func localUUID(ctx *fiber.Ctx, key string) (uuid.UUID, bool) {
	raw, ok := ctx.Locals(key).(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func SetSessionCookie(ctx *fiber.Ctx, name, token string, expires time.Time, secure bool) {
	ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(ctx *fiber.Ctx, name string) {
	ctx.ClearCookie(name)
}

// SafeRedirectTarget accepts only same-site absolute paths.
func SafeRedirectTarget(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
