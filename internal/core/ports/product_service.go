package ports

import (
	"context"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// ProductInput carries a create request. All fields arrive untrusted.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
}

// ProductPatch is a partial update; nil fields keep the stored value.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
}

// ProductService owns catalog CRUD and the category listing.
type ProductService interface {
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}
