package ports

import (
	"context"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// UserAdminService wraps every structural mutation of the user population
// behind the admin invariant: the set of active administrators never drops
// to zero, and nobody demotes, deactivates or deletes themselves.
type UserAdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// InviteAdmin creates an active administrator account with a generated
	// temporary password. The password is returned exactly once and is not
	// re-derivable afterwards.
	InviteAdmin(ctx context.Context, actorID int64, username, email string) (*domain.User, string, error)

	// Promote grants admin. Promoting an existing admin is a no-op success;
	// promoting yourself is allowed since it cannot reduce admin coverage.
	Promote(ctx context.Context, actorID, targetID int64) error

	Demote(ctx context.Context, actorID, targetID int64) error
	ToggleActive(ctx context.Context, actorID, targetID int64) error
	DeleteUser(ctx context.Context, actorID, targetID int64) error
}
