package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/finance"
)

// InvoiceLineRequest is one line of a new invoice
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest represents a request to issue an invoice
type CreateInvoiceRequest struct {
	CustomerName string               `json:"customer_name" binding:"required,max=200"`
	Currency     string               `json:"currency" binding:"required,len=3,alpha"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	Lines        []InvoiceLineRequest `json:"lines" binding:"required,min=1,max=200,dive"`
}

// InvoiceLineResponse represents an invoice line in API responses
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID           uuid.UUID             `json:"id"`
	TenantID     uuid.UUID             `json:"tenant_id"`
	Number       string                `json:"number"`
	CustomerName string                `json:"customer_name"`
	Currency     string                `json:"currency"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Tax          decimal.Decimal       `json:"tax"`
	Total        decimal.Decimal       `json:"total"`
	IssuedAt     time.Time             `json:"issued_at"`
	Lines        []InvoiceLineResponse `json:"lines"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, InvoiceLineResponse{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return InvoiceResponse{
		ID:           inv.ID,
		TenantID:     inv.TenantID,
		Number:       inv.Number,
		CustomerName: inv.CustomerName,
		Currency:     inv.Currency,
		TaxRate:      inv.TaxRate,
		Subtotal:     inv.Subtotal,
		Tax:          inv.Tax,
		Total:        inv.Total,
		IssuedAt:     inv.IssuedAt,
		Lines:        lines,
	}
}

func (r CreateInvoiceRequest) lineInputs() []finance.LineInput {
	inputs := make([]finance.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		inputs = append(inputs, finance.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return inputs
}
