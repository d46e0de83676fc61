package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/session"
)

// Context keys set by the middleware below.
const (
	// CtxSession holds the *domain.Session for the request, when present.
	CtxSession = "session"
	// CtxUser holds the authoritative *domain.User, set by RequireAdmin.
	CtxUser = "user"
)

// Session resolves the signed session cookie into a server-side session and
// injects it into the request context. An absent, tampered or expired
// cookie simply leaves the request anonymous; guards decide what that
// means per route.
func Session(sessions ports.SessionStore, codec *session.CookieCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			id, err := codec.Decode(cookie.Value)
			if err != nil {
				return next(c)
			}

			sess, err := sessions.Get(c.Request().Context(), id)
			if err != nil {
				return next(c)
			}

			c.Set(CtxSession, sess)
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(CtxSession).(*domain.Session); !ok {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}

// RequireAdmin authorizes privileged operations. It deliberately ignores
// the session's cached is_admin snapshot and re-reads the user record, so
// a demotion elsewhere takes effect on the very next privileged request.
func RequireAdmin(users ports.UserReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := c.Get(CtxSession).(*domain.Session)
			if !ok {
				return domain.ErrNotAuthenticated
			}

			user, err := users.FindByID(c.Request().Context(), sess.UserID)
			if err != nil {
				return domain.ErrNotAuthenticated
			}
			if !user.IsAdmin || !user.IsActive {
				return domain.ErrForbidden
			}

			c.Set(CtxUser, user)
			return next(c)
		}
	}
}
