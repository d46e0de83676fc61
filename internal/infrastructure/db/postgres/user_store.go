package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// usersLockKey is the advisory lock taken by InTx. Serializing structural
// user mutations behind it makes the last-admin count and the write it
// protects a single atomic step.
const usersLockKey = 874523

const userColumns = "id, username, email, password_hash, is_admin, is_active, invited_by, created_at"

// UserStore implements ports.UserStore on Postgres.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return findByID(ctx, s.db, id)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findByUsername(ctx, s.db, username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findByEmail(ctx, s.db, email)
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	return list(ctx, s.db)
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return count(ctx, s.db)
}

// InTx runs fn inside a transaction holding the users advisory lock.
func (s *UserStore) InTx(ctx context.Context, fn func(ctx context.Context, tx ports.UserTx) error) error {
	return withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", usersLockKey); err != nil {
			return fmt.Errorf("acquire users lock: %w", err)
		}
		return fn(ctx, &userTx{tx: tx})
	})
}

// userTx is the transactional view handed to InTx callbacks.
type userTx struct {
	tx *sql.Tx
}

func (t *userTx) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return findByID(ctx, t.tx, id)
}

func (t *userTx) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findByUsername(ctx, t.tx, username)
}

func (t *userTx) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findByEmail(ctx, t.tx, email)
}

func (t *userTx) List(ctx context.Context) ([]*domain.User, error) {
	return list(ctx, t.tx)
}

func (t *userTx) Count(ctx context.Context) (int64, error) {
	return count(ctx, t.tx)
}

func (t *userTx) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (username, email, password_hash, is_admin, is_active, invited_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	err := t.tx.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.IsAdmin, user.IsActive, user.InvitedBy, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return user, nil
}

func (t *userTx) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return t.setFlag(ctx, "is_admin", id, isAdmin)
}

func (t *userTx) SetActive(ctx context.Context, id int64, isActive bool) error {
	return t.setFlag(ctx, "is_active", id, isActive)
}

func (t *userTx) setFlag(ctx context.Context, column string, id int64, value bool) error {
	res, err := t.tx.ExecContext(ctx, fmt.Sprintf("UPDATE users SET %s = $1 WHERE id = $2", column), value, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (t *userTx) Delete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (t *userTx) CountActiveAdmins(ctx context.Context, excludeID int64) (int64, error) {
	var n int64
	err := t.tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE is_admin AND is_active AND id <> $1", excludeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active admins: %w", err)
	}
	return n, nil
}

func findByID(ctx context.Context, db dbtx, id int64) (*domain.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func findByUsername(ctx context.Context, db dbtx, username string) (*domain.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username) = LOWER($1)", username))
}

func findByEmail(ctx context.Context, db dbtx, email string) (*domain.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email))
}

func list(ctx context.Context, db dbtx) ([]*domain.User, error) {
	rows, err := db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.IsAdmin, &user.IsActive, &user.InvitedBy, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func count(ctx context.Context, db dbtx) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.IsActive, &user.InvitedBy, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// mapUniqueViolation translates the unique-index violations into the
// conflict errors the service layer reports.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_username_lower_idx":
			return domain.ErrUsernameTaken
		case "users_email_lower_idx":
			return domain.ErrEmailTaken
		}
	}
	return fmt.Errorf("insert user: %w", err)
}
