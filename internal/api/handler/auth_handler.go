package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Michelc16/catalogo-online/internal/api/metrics"
	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/session"
)

// AuthHandler serves the authentication surface: register, login, logout
// and the current-user probe.
type AuthHandler struct {
	auth  ports.AuthService
	codec *session.CookieCodec
}

func NewAuthHandler(auth ports.AuthService, codec *session.CookieCodec) *AuthHandler {
	return &AuthHandler{auth: auth, codec: codec}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User    *domain.User `json:"user"`
	IsAdmin bool         `json:"is_admin"`
}

// Register creates a new account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, sess, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	if err := h.setSessionCookie(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user, IsAdmin: user.IsAdmin})
}

// Login authenticates a user and issues a fresh session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthFailuresTotal.Inc()
		return domain.ErrInvalidCredentials
	}

	user, sess, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthFailuresTotal.Inc()
		return err
	}

	if err := h.setSessionCookie(c, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user, IsAdmin: user.IsAdmin})
}

// Logout invalidates the session server-side and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      200  {object}  map[string]string
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess, ok := currentSession(c); ok {
		if err := h.auth.Logout(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	c.SetCookie(session.ExpiredCookie())
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the caller's authoritative user record, or null when the
// request is anonymous.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /api/user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, ok := currentSession(c)
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"user": nil})
	}

	user, err := h.auth.CurrentUser(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}
	if user == nil {
		c.SetCookie(session.ExpiredCookie())
		return c.JSON(http.StatusOK, map[string]any{"user": nil})
	}
	return c.JSON(http.StatusOK, userResponse{User: user, IsAdmin: user.IsAdmin})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sess *domain.Session) error {
	value, err := h.codec.Encode(sess.ID, sess.ExpiresAt)
	if err != nil {
		return err
	}
	c.SetCookie(session.NewCookie(value, sess.ExpiresAt))
	return nil
}
