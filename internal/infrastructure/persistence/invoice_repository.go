package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/stockflow/backend/internal/domain/finance"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *tenant.TenantDB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *tenant.TenantDB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindAll lists the invoices of the context tenant with their lines
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ?", keyword, keyword)
	}

	var rows []models.InvoiceModel
	total, err := paginate(query, filter, InvoiceSortFields, "issued_at", &rows, preloadLines)
	if err != nil {
		return nil, 0, err
	}
	invoices := make([]finance.Invoice, 0, len(rows))
	for i := range rows {
		invoices = append(invoices, *rows[i].ToDomain())
	}
	return invoices, total, nil
}

// CountIssuedSince counts invoices of the context tenant issued at or after since
func (r *GormInvoiceRepository) CountIssuedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("issued_at >= ?", since.UTC()).
		Count(&count).Error
	return count, err
}

// Save inserts the invoice and its lines in one transaction scoped to the
// context tenant. Issued invoices are immutable.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)
	model.IssuedAt = model.IssuedAt.UTC()
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if tenantID, _ := tenant.FromContext(ctx); tenantID != invoice.TenantID {
			return ErrTenantMismatch
		}
		return tx.Create(&model).Error
	})
	return translateError(err)
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
