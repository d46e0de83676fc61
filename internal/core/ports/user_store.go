package ports

import (
	"context"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// UserReader is the read-only view of the user population. Username and
// email lookups are case-insensitive.
type UserReader interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// UserTx is the transactional view handed to InTx callbacks. Mutations and
// the last-admin count check run against the same consistent snapshot.
type UserTx interface {
	UserReader

	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	SetActive(ctx context.Context, id int64, isActive bool) error
	Delete(ctx context.Context, id int64) error

	// CountActiveAdmins counts users with is_admin and is_active set,
	// excluding excludeID (pass 0 to exclude nobody). Evaluating the admin
	// invariant means counting as if the excluded user had already been
	// demoted, deactivated or deleted.
	CountActiveAdmins(ctx context.Context, excludeID int64) (int64, error)
}

// UserStore persists users. InTx serializes structural mutations: the
// callback runs inside a single transaction holding a lock scoped to the
// user table, so concurrent check-then-act sequences cannot interleave.
type UserStore interface {
	UserReader

	InTx(ctx context.Context, fn func(ctx context.Context, tx UserTx) error) error
}
