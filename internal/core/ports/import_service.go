package ports

import (
	"context"
	"io"

	"github.com/Michelc16/catalogo-online/internal/core/domain"
)

// ImportService ingests a header-delimited CSV stream of products,
// persisting the valid subset and reporting every per-row failure.
type ImportService interface {
	ImportProducts(ctx context.Context, r io.Reader) (*domain.ImportSummary, error)
}
