package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Michelc16/catalogo-online/internal/api/middleware"
	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// currentSession extracts the session injected by the Session middleware.
func currentSession(c echo.Context) (*domain.Session, bool) {
	sess, ok := c.Get(middleware.CtxSession).(*domain.Session)
	return sess, ok
}

// currentUser extracts the authoritative user set by RequireAdmin. Handlers
// behind that guard may rely on it being present.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.CtxUser).(*domain.User)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}
