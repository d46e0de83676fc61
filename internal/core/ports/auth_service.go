package ports

import (
	"context"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// RegisterInput carries a registration request into the session authority.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService is the session authority: registration, login, logout and
// session-to-user resolution.
type AuthService interface {
	// Register creates a user and logs them in. The first user ever created
	// becomes an administrator.
	Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Session, error)

	// Login verifies credentials and issues a fresh session. All failure
	// modes return domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)

	// Logout invalidates the session; idempotent.
	Logout(ctx context.Context, sessionID string) error

	// CurrentUser resolves a session ID to its authoritative user record.
	// Missing, expired or dangling sessions yield (nil, nil); a dangling
	// session is cleared as a side effect.
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}
