package ports

import (
	"context"
	"io"
)

// ImageService decodes, normalizes and persists uploaded images, returning
// the stored filename.
type ImageService interface {
	Ingest(ctx context.Context, r io.Reader, originalFilename string) (string, error)
}
