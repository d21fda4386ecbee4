package persistence

import (
	"context"
	"strings"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *tenant.TenantDB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *tenant.TenantDB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindAll lists the products of the context tenant
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", keyword, keyword)
	}

	var rows []models.ProductModel
	total, err := paginate(query, filter, ProductSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	products := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		products = append(products, *rows[i].ToDomain())
	}
	return products, total, nil
}

// ExistsBySKU checks whether the context tenant already uses the SKU
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("sku = ?", strings.ToUpper(sku)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	return translateError(r.db.Unscoped(ctx).Save(&model).Error)
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
