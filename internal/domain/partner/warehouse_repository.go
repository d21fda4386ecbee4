package partner

import (
	"context"

	"github.com/stockflow/backend/internal/domain/shared"
)

// WarehouseRepository defines the interface for warehouse persistence.
// Every method is scoped to the tenant of the request context.
type WarehouseRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}
