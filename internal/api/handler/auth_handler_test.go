package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Michelc16/catalogo-online/internal/api"
	"github.com/Michelc16/catalogo-online/internal/api/handler"
	"github.com/Michelc16/catalogo-online/internal/api/middleware"
	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/session"
)

// stubAuth returns canned results, so these tests exercise only the HTTP
// surface: binding, validation, status codes, cookies.
type stubAuth struct {
	user      *domain.User
	loginErr  error
	logoutIDs []string
}

func (s *stubAuth) session() *domain.Session {
	return &domain.Session{
		ID:        "sess-1",
		UserID:    s.user.ID,
		Username:  s.user.Username,
		IsAdmin:   s.user.IsAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func (s *stubAuth) Register(context.Context, ports.RegisterInput) (*domain.User, *domain.Session, error) {
	return s.user, s.session(), nil
}

func (s *stubAuth) Login(context.Context, string, string) (*domain.User, *domain.Session, error) {
	if s.loginErr != nil {
		return nil, nil, s.loginErr
	}
	return s.user, s.session(), nil
}

func (s *stubAuth) Logout(_ context.Context, sessionID string) error {
	s.logoutIDs = append(s.logoutIDs, sessionID)
	return nil
}

func (s *stubAuth) CurrentUser(context.Context, string) (*domain.User, error) {
	return s.user, nil
}

func newAuthApp(auth ports.AuthService, sessions ports.SessionStore, codec *session.CookieCodec) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	e.Use(middleware.Session(sessions, codec))

	h := handler.NewAuthHandler(auth, codec)
	e.POST("/api/register", h.Register)
	e.POST("/api/login", h.Login)
	e.POST("/api/logout", h.Logout)
	e.GET("/api/user", h.Me)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	res := http.Response{Header: rec.Header()}
	for _, cookie := range res.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com", IsAdmin: true, IsActive: true}
	codec := session.NewCookieCodec("test-secret")
	e := newAuthApp(&stubAuth{user: alice}, session.NewMemoryStore(time.Hour), codec)

	rec := postJSON(e, "/api/register", `{"username":"alice","email":"alice@example.com","password":"hunter22"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("register must set the session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if id, err := codec.Decode(cookie.Value); err != nil || id != "sess-1" {
		t.Errorf("cookie decodes to %q, %v", id, err)
	}

	var body struct {
		User    *domain.User `json:"user"`
		IsAdmin bool         `json:"is_admin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.User == nil || body.User.Username != "alice" || !body.IsAdmin {
		t.Errorf("body = %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not leak password material")
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	e := newAuthApp(&stubAuth{user: &domain.User{}}, session.NewMemoryStore(time.Hour), session.NewCookieCodec("test-secret"))

	rec := postJSON(e, "/api/register", `{"username":"ab","email":"nope","password":"123"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, field := range []string{"username", "email", "password"} {
		if !strings.Contains(body, field) {
			t.Errorf("error should mention %q: %s", field, body)
		}
	}
}

func TestLoginEndpointFailure(t *testing.T) {
	stub := &stubAuth{user: &domain.User{}, loginErr: domain.ErrInvalidCredentials}
	e := newAuthApp(stub, session.NewMemoryStore(time.Hour), session.NewCookieCodec("test-secret"))

	rec := postJSON(e, "/api/login", `{"username":"ghost","password":"whatever"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Error("failed login must not set a cookie")
	}
	if !strings.Contains(rec.Body.String(), domain.ErrInvalidCredentials.Error()) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLogoutEndpoint(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice"}
	stub := &stubAuth{user: alice}
	store := session.NewMemoryStore(time.Hour)
	codec := session.NewCookieCodec("test-secret")
	e := newAuthApp(stub, store, codec)

	sess, err := store.Create(context.Background(), alice)
	if err != nil {
		t.Fatal(err)
	}
	value, err := codec.Encode(sess.ID, sess.ExpiresAt)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(session.NewCookie(value, sess.ExpiresAt))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(stub.logoutIDs) != 1 || stub.logoutIDs[0] != sess.ID {
		t.Errorf("logout called with %v", stub.logoutIDs)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Error("logout must clear the session cookie")
	}
}

func TestMeEndpointAnonymous(t *testing.T) {
	e := newAuthApp(&stubAuth{user: &domain.User{}}, session.NewMemoryStore(time.Hour), session.NewCookieCodec("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if user, ok := body["user"]; !ok || user != nil {
		t.Errorf("anonymous probe: body = %s", rec.Body.String())
	}
}
