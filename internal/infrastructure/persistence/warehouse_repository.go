package persistence

import (
	"context"
	"strings"

	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/persistence/models"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
)

// GormWarehouseRepository implements partner.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *tenant.TenantDB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *tenant.TenantDB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindAll lists the warehouses of the context tenant
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WarehouseModel{})
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", keyword, keyword)
	}

	var rows []models.WarehouseModel
	total, err := paginate(query, filter, WarehouseSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	warehouses := make([]partner.Warehouse, 0, len(rows))
	for i := range rows {
		warehouses = append(warehouses, *rows[i].ToDomain())
	}
	return warehouses, total, nil
}

// ExistsByCode checks whether the context tenant already uses the code
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WarehouseModel{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	var model models.WarehouseModel
	model.FromDomain(warehouse)
	return translateError(r.db.Unscoped(ctx).Save(&model).Error)
}

var _ partner.WarehouseRepository = (*GormWarehouseRepository)(nil)
