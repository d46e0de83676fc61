package ports

import "context"

// CategoryCache caches the distinct category listing. Implementations are
// best-effort: a cache failure must never fail the request it decorates.
type CategoryCache interface {
	// Get returns the cached listing and whether it was present.
	Get(ctx context.Context) ([]string, bool, error)
	Set(ctx context.Context, categories []string) error
	Invalidate(ctx context.Context) error
}
