package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Invoice is a sales invoice issued by a tenant. Invoices count against a monthly quota.
type Invoice struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	Number       string
	CustomerName string
	Currency     string
	TaxRate      decimal.Decimal
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	IssuedAt     time.Time
	Lines        []InvoiceLine
}

// InvoiceLine is one billed item of an invoice
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// LineInput carries the caller-supplied fields of a line
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// NewInvoice creates an unnumbered invoice and computes its totals.
// taxRate is a fraction, e.g. 0.19 for 19%.
func NewInvoice(tenantID uuid.UUID, customerName, currency string, taxRate decimal.Decimal, issuedAt time.Time, lines []LineInput) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	currency = strings.ToUpper(currency)
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_LINES", "Invoice must have at least one line")
	}

	inv := &Invoice{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		CustomerName: customerName,
		Currency:     currency,
		TaxRate:      taxRate,
		IssuedAt:     issuedAt,
	}

	for i, in := range lines {
		if in.Description == "" {
			return nil, shared.NewDomainError("INVALID_LINES", fmt.Sprintf("Line %d: description cannot be empty", i+1))
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_LINES", fmt.Sprintf("Line %d: quantity must be positive", i+1))
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_LINES", fmt.Sprintf("Line %d: unit price cannot be negative", i+1))
		}
		inv.Lines = append(inv.Lines, InvoiceLine{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   in.Quantity.Mul(in.UnitPrice).Round(4),
		})
	}
	inv.recalculate()

	return inv, nil
}

func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	for _, l := range i.Lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	i.Subtotal = subtotal
	i.Tax = subtotal.Mul(i.TaxRate).Round(4)
	i.Total = i.Subtotal.Add(i.Tax)
}

// AssignNumber sets the invoice number from its monthly sequence
func (i *Invoice) AssignNumber(loc *time.Location, seq int64) {
	i.Number = FormatInvoiceNumber(i.IssuedAt, loc, seq)
}

// FormatInvoiceNumber renders INV-YYYYMM-NNNN for the month of issuedAt in loc
func FormatInvoiceNumber(issuedAt time.Time, loc *time.Location, seq int64) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("INV-%s-%04d", issuedAt.In(loc).Format("200601"), seq)
}
