package ports

import (
	"context"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// SessionStore holds server-side sessions keyed by an opaque ID.
type SessionStore interface {
	// Create issues a fresh session for the user.
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)

	// Get returns the session for id, or domain.ErrNotAuthenticated when the
	// id is unknown or the session has expired.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete invalidates a session. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
