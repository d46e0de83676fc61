package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// UserAdminGuard enforces the structural rules on the user population:
// at least one active administrator always exists, and nobody demotes,
// deactivates or deletes their own account through this path.
//
// Every mutation runs inside UserStore.InTx, so the last-admin count and
// the write it protects see the same snapshot and concurrent requests
// cannot race the invariant to zero.
type UserAdminGuard struct {
	users  ports.UserStore
	logger zerolog.Logger
}

func NewUserAdminGuard(users ports.UserStore, logger zerolog.Logger) *UserAdminGuard {
	return &UserAdminGuard{users: users, logger: logger}
}

func (g *UserAdminGuard) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return g.users.List(ctx)
}

// InviteAdmin creates an active administrator with a generated temporary
// password. The password is returned once; only the hash is stored.
func (g *UserAdminGuard) InviteAdmin(ctx context.Context, actorID int64, username, email string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	var fields []string
	if utf8.RuneCountInString(username) < usernameMinLen {
		fields = append(fields, fmt.Sprintf("username must be at least %d characters", usernameMinLen))
	}
	if !emailPattern.MatchString(email) {
		fields = append(fields, "email must be a valid address")
	}
	if len(fields) > 0 {
		return nil, "", &domain.ValidationError{Fields: fields}
	}

	password, err := generateTempPassword()
	if err != nil {
		return nil, "", err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	var created *domain.User
	err = g.users.InTx(ctx, func(ctx context.Context, tx ports.UserTx) error {
		if err := checkAvailable(ctx, tx, username, email); err != nil {
			return err
		}
		invitedBy := actorID
		created, err = tx.Create(ctx, &domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			IsAdmin:      true,
			IsActive:     true,
			InvitedBy:    &invitedBy,
			CreatedAt:    time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, "", err
	}

	g.logger.Info().
		Int64("actor_id", actorID).
		Str("username", created.Username).
		Msg("admin invited")

	return created, password, nil
}

// Promote grants admin status. Promoting an existing admin is an idempotent
// success, and promoting yourself is allowed: neither can reduce coverage.
func (g *UserAdminGuard) Promote(ctx context.Context, actorID, targetID int64) error {
	return g.users.InTx(ctx, func(ctx context.Context, tx ports.UserTx) error {
		target, err := tx.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target.IsAdmin {
			return nil
		}
		if err := tx.SetAdmin(ctx, targetID, true); err != nil {
			return err
		}
		g.logger.Info().Int64("actor_id", actorID).Int64("target_id", targetID).Msg("user promoted")
		return nil
	})
}

// Demote clears admin status unless that would leave zero active admins.
func (g *UserAdminGuard) Demote(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return domain.ErrSelfModification
	}
	return g.users.InTx(ctx, func(ctx context.Context, tx ports.UserTx) error {
		target, err := tx.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if !target.IsAdmin {
			return nil
		}
		if target.IsActive {
			if err := requireOtherActiveAdmin(ctx, tx, targetID); err != nil {
				return err
			}
		}
		if err := tx.SetAdmin(ctx, targetID, false); err != nil {
			return err
		}
		g.logger.Info().Int64("actor_id", actorID).Int64("target_id", targetID).Msg("user demoted")
		return nil
	})
}

// ToggleActive flips the active flag. Deactivating the last active admin or
// your own account is rejected.
func (g *UserAdminGuard) ToggleActive(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return domain.ErrSelfModification
	}
	return g.users.InTx(ctx, func(ctx context.Context, tx ports.UserTx) error {
		target, err := tx.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target.IsActive && target.IsAdmin {
			if err := requireOtherActiveAdmin(ctx, tx, targetID); err != nil {
				return err
			}
		}
		if err := tx.SetActive(ctx, targetID, !target.IsActive); err != nil {
			return err
		}
		g.logger.Info().
			Int64("actor_id", actorID).
			Int64("target_id", targetID).
			Bool("is_active", !target.IsActive).
			Msg("user active flag toggled")
		return nil
	})
}

// DeleteUser removes an account permanently, under the same self and
// last-admin protections.
func (g *UserAdminGuard) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return domain.ErrSelfModification
	}
	return g.users.InTx(ctx, func(ctx context.Context, tx ports.UserTx) error {
		target, err := tx.FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target.IsAdmin && target.IsActive {
			if err := requireOtherActiveAdmin(ctx, tx, targetID); err != nil {
				return err
			}
		}
		if err := tx.Delete(ctx, targetID); err != nil {
			return err
		}
		g.logger.Info().Int64("actor_id", actorID).Int64("target_id", targetID).Msg("user deleted")
		return nil
	})
}

// requireOtherActiveAdmin evaluates the admin invariant as it would hold
// after removing targetID from the active-admin set.
func requireOtherActiveAdmin(ctx context.Context, tx ports.UserTx, targetID int64) error {
	n, err := tx.CountActiveAdmins(ctx, targetID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLastAdmin
	}
	return nil
}
