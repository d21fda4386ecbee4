package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewInvoice(t *testing.T) {
	tenantID := uuid.New()
	issued := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("computes totals", func(t *testing.T) {
		inv, err := NewInvoice(tenantID, "ACME", "usd", dec("0.19"), issued, []LineInput{
			{Description: "Coffee", Quantity: dec("3"), UnitPrice: dec("10.50")},
			{Description: "Tea", Quantity: dec("0.5"), UnitPrice: dec("4")},
		})

		require.NoError(t, err)
		assert.Equal(t, "USD", inv.Currency)
		require.Len(t, inv.Lines, 2)
		assert.True(t, dec("31.5").Equal(inv.Lines[0].LineTotal))
		assert.Equal(t, inv.ID, inv.Lines[1].InvoiceID)
		assert.True(t, dec("33.5").Equal(inv.Subtotal))
		assert.True(t, dec("6.365").Equal(inv.Tax))
		assert.True(t, dec("39.865").Equal(inv.Total))
		assert.Empty(t, inv.Number)
	})

	t.Run("validates input", func(t *testing.T) {
		line := []LineInput{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}}

		_, err := NewInvoice(tenantID, "", "USD", decimal.Zero, issued, line)
		assert.Error(t, err)
		_, err = NewInvoice(tenantID, "ACME", "US", decimal.Zero, issued, line)
		assert.Error(t, err)
		_, err = NewInvoice(tenantID, "ACME", "USD", dec("1.5"), issued, line)
		assert.Error(t, err)
		_, err = NewInvoice(tenantID, "ACME", "USD", decimal.Zero, issued, nil)
		assert.Error(t, err)
		_, err = NewInvoice(tenantID, "ACME", "USD", decimal.Zero, issued,
			[]LineInput{{Description: "x", Quantity: decimal.Zero, UnitPrice: dec("1")}})
		assert.Contains(t, err.Error(), "quantity must be positive")
	})
}

func TestFormatInvoiceNumber(t *testing.T) {
	issued := time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-202604-0007", FormatInvoiceNumber(issued, time.UTC, 7))

	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	// 02:00 UTC on April 1st is still March 31st in Bogota.
	assert.Equal(t, "INV-202603-0012", FormatInvoiceNumber(issued, bogota, 12))
}
