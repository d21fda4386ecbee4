package catalog

import (
	"context"

	"github.com/stockflow/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// Every method is scoped to the tenant of the request context.
type ProductRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
}
