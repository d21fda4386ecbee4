package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/finance"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
type InvoiceModel struct {
	TenantOwnedModel
	Number       string             `gorm:"type:varchar(32);not null"`
	CustomerName string             `gorm:"type:varchar(200);not null"`
	Currency     string             `gorm:"type:char(3);not null"`
	TaxRate      decimal.Decimal    `gorm:"type:decimal(9,6);not null;default:0"`
	Subtotal     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Tax          decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Total        decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	IssuedAt     time.Time          `gorm:"not null;index"`
	Lines        []InvoiceLineModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is one row of invoice_lines.
type InvoiceLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the row and its loaded lines to an Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	inv := &finance.Invoice{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		Number:       m.Number,
		CustomerName: m.CustomerName,
		Currency:     m.Currency,
		TaxRate:      m.TaxRate,
		Subtotal:     m.Subtotal,
		Tax:          m.Tax,
		Total:        m.Total,
		IssuedAt:     m.IssuedAt,
		Lines:        make([]finance.InvoiceLine, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		inv.Lines = append(inv.Lines, finance.InvoiceLine{
			ID:          l.ID,
			InvoiceID:   l.InvoiceID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return inv
}

// FromDomain populates the row and its lines from an Invoice
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.TenantID = inv.TenantID
	m.Number = inv.Number
	m.CustomerName = inv.CustomerName
	m.Currency = inv.Currency
	m.TaxRate = inv.TaxRate
	m.Subtotal = inv.Subtotal
	m.Tax = inv.Tax
	m.Total = inv.Total
	m.IssuedAt = inv.IssuedAt
	m.Lines = make([]InvoiceLineModel, 0, len(inv.Lines))
	for i, l := range inv.Lines {
		m.Lines = append(m.Lines, InvoiceLineModel{
			ID:          l.ID,
			InvoiceID:   inv.ID,
			Position:    i + 1,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
}
