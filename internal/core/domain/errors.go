package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the core subsystems. The HTTP layer maps each of these
// to a status code in exactly one place (internal/api/error_handler.go).
var (
	// ErrInvalidCredentials is deliberately generic: unknown username, wrong
	// password and inactive account all surface identically so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrNotAuthenticated means no valid session accompanied the request.
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrForbidden means the caller is authenticated but not an active admin.
	ErrForbidden = errors.New("admin privileges required")

	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")

	// ErrLastAdmin guards the invariant that at least one active
	// administrator always exists.
	ErrLastAdmin = errors.New("cannot remove the last active administrator")

	// ErrSelfModification rejects demote/deactivate/delete against the
	// caller's own account through the privileged path.
	ErrSelfModification = errors.New("cannot modify your own account status")

	// ErrUnsupportedType rejects uploads whose extension is not allow-listed.
	ErrUnsupportedType = errors.New("file type not allowed")
)

// ValidationError collects every field violation found in a single request
// so the caller sees them all at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// ProcessingError wraps a storage or decoding failure. The underlying cause
// is logged server-side; only the operation name reaches the caller.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
