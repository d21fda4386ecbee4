package finance

import (
	"context"
	"time"

	"github.com/stockflow/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence.
// Every method is scoped to the tenant of the request context.
type InvoiceRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, int64, error)

	// CountIssuedSince counts invoices issued at or after since
	CountIssuedSince(ctx context.Context, since time.Time) (int64, error)

	// Save persists an invoice with its lines
	Save(ctx context.Context, invoice *Invoice) error
}
