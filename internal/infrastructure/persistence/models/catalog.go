package models

import (
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/partner"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantOwnedModel
	SKU       string          `gorm:"column:sku;type:varchar(50);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the row to a Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		SKU:        m.SKU,
		Name:       m.Name,
		UnitPrice:  m.UnitPrice,
	}
}

// FromDomain populates the row from a Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.TenantID = p.TenantID
	m.SKU = p.SKU
	m.Name = p.Name
	m.UnitPrice = p.UnitPrice
}

// WarehouseModel is the persistence model for the Warehouse domain entity.
type WarehouseModel struct {
	TenantOwnedModel
	Code    string `gorm:"type:varchar(50);not null"`
	Name    string `gorm:"type:varchar(100);not null"`
	Address string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the row to a Warehouse
func (m *WarehouseModel) ToDomain() *partner.Warehouse {
	return &partner.Warehouse{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Code:       m.Code,
		Name:       m.Name,
		Address:    m.Address,
	}
}

// FromDomain populates the row from a Warehouse
func (m *WarehouseModel) FromDomain(w *partner.Warehouse) {
	m.FromDomainBaseEntity(w.BaseEntity)
	m.TenantID = w.TenantID
	m.Code = w.Code
	m.Name = w.Name
	m.Address = w.Address
}
