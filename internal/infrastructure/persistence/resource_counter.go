package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/application/planlimit"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormResourceCounter counts tenant resources for plan-limit checks.
type GormResourceCounter struct {
	db *gorm.DB
}

// NewGormResourceCounter creates a new GormResourceCounter
func NewGormResourceCounter(db *gorm.DB) *GormResourceCounter {
	return &GormResourceCounter{db: db}
}

// CountResources counts the tenant's resources of kind. Users count pending
// invitations and active members; disabled members free their seat.
// Invoices are counted by issue time, everything else by creation time.
func (c *GormResourceCounter) CountResources(ctx context.Context, tenantID uuid.UUID, kind billing.LimitType, since time.Time) (int64, error) {
	var (
		model      any
		timeColumn = "created_at"
	)
	switch kind {
	case billing.LimitUsers:
		model = &models.UserModel{}
	case billing.LimitProducts:
		model = &models.ProductModel{}
	case billing.LimitWarehouses:
		model = &models.WarehouseModel{}
	case billing.LimitInvoices:
		model = &models.InvoiceModel{}
		timeColumn = "issued_at"
	default:
		return 0, fmt.Errorf("count resources: unknown limit type %q", kind)
	}

	query := c.db.WithContext(ctx).Model(model).Where("tenant_id = ?", tenantID)
	if kind == billing.LimitUsers {
		query = query.Where("status <> ?", identity.UserStatusDisabled)
	}
	if !since.IsZero() {
		query = query.Where(timeColumn+" >= ?", since.UTC())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s for tenant %s: %w", kind, tenantID, err)
	}
	return count, nil
}

var _ planlimit.ResourceCounter = (*GormResourceCounter)(nil)
