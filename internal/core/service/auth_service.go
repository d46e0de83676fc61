package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

const (
	usernameMinLen = 3
	passwordMinLen = 6
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService is the session authority. It owns registration, login, logout
// and session-to-user resolution. Admin status is never read from the
// session snapshot here; CurrentUser always returns the authoritative row.
type AuthService struct {
	users    ports.UserStore
	sessions ports.SessionStore
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserStore, sessions ports.SessionStore, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, logger: logger}
}

// Register creates a user and logs them in. The uniqueness checks, the
// first-user count and the insert share one transaction so two concurrent
// first registrations cannot both become the bootstrap admin.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, *domain.Session, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if err := validateRegistration(username, email, input.Password); err != nil {
		return nil, nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	var created *domain.User
	err = s.users.InTx(ctx, func(ctx context.Context, tx ports.UserTx) error {
		if err := checkAvailable(ctx, tx, username, email); err != nil {
			return err
		}

		total, err := tx.Count(ctx)
		if err != nil {
			return err
		}

		created, err = tx.Create(ctx, &domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			IsAdmin:      total == 0,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Create(ctx, created)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().
		Str("username", created.Username).
		Bool("is_admin", created.IsAdmin).
		Msg("user registered")

	return created, sess, nil
}

// Login verifies credentials and issues a fresh session. Unknown username,
// wrong password and inactive account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same bcrypt cost as a real comparison.
			verifyPassword(password, dummyHash)
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !verifyPassword(password, user.PasswordHash) || !user.IsActive {
		return nil, nil, domain.ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	return user, sess, nil
}

// Logout invalidates the session. Unknown or already-expired IDs succeed.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// CurrentUser resolves a session to its user. A session pointing at a
// deleted user is cleared rather than surfaced as an error.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return nil, nil
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
				s.logger.Warn().Err(delErr).Msg("failed to clear dangling session")
			}
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func validateRegistration(username, email, password string) error {
	var fields []string
	if utf8.RuneCountInString(username) < usernameMinLen {
		fields = append(fields, fmt.Sprintf("username must be at least %d characters", usernameMinLen))
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		fields = append(fields, fmt.Sprintf("password must be at least %d characters", passwordMinLen))
	}
	if !emailPattern.MatchString(email) {
		fields = append(fields, "email must be a valid address")
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// checkAvailable verifies username and email independently so conflicts
// report which identity is taken.
func checkAvailable(ctx context.Context, r ports.UserReader, username, email string) error {
	if _, err := r.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := r.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	return nil
}
