package ports

import (
	"context"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// ProductFilter narrows a catalog listing. Category is an exact match;
// Search matches product names case-insensitively.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductRepository is the catalog storage contract.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error

	// Categories returns the distinct non-blank categories, sorted.
	Categories(ctx context.Context) ([]string, error)
}
