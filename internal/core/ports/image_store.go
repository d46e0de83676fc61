package ports

import (
	"context"
	"io"
)

// ImageStore persists processed upload images. Save must be atomic: either
// the complete file exists under name afterwards, or nothing does.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) error

	// Remove deletes a stored image. Removing a name that does not exist is
	// not an error.
	Remove(ctx context.Context, name string) error
}
