package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/finance"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, tenantID uuid.UUID, issuedAt time.Time, seq int64) *finance.Invoice {
	t.Helper()
	inv, err := finance.NewInvoice(tenantID, "Globex", "usd", decimal.RequireFromString("0.19"), issuedAt, []finance.LineInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		{Description: "Travel", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	inv.AssignNumber(time.UTC, seq)
	return inv
}

func TestGormInvoiceRepository_SaveAndList(t *testing.T) {
	_, tdb := setupTenantDB(t)
	repo := NewGormInvoiceRepository(tdb)
	tenantID := uuid.New()
	issued := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	inv := newTestInvoice(t, tenantID, issued, 1)
	require.NoError(t, repo.Save(ctxFor(tenantID), inv))

	invoices, total, err := repo.FindAll(ctxFor(tenantID), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)

	got := invoices[0]
	assert.Equal(t, "INV-202603-0001", got.Number)
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("142.8")), "total %s", got.Total)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Consulting", got.Lines[0].Description)
	assert.Equal(t, "Travel", got.Lines[1].Description)
	assert.True(t, got.IssuedAt.Equal(issued))

	_, total, err = repo.FindAll(ctxFor(uuid.New()), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGormInvoiceRepository_CountIssuedSince(t *testing.T) {
	_, tdb := setupTenantDB(t)
	repo := NewGormInvoiceRepository(tdb)
	tenantID := uuid.New()

	february := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctxFor(tenantID), newTestInvoice(t, tenantID, february, 1)))
	require.NoError(t, repo.Save(ctxFor(tenantID), newTestInvoice(t, tenantID, march, 1)))
	require.NoError(t, repo.Save(ctxFor(tenantID), newTestInvoice(t, tenantID, march.Add(time.Hour), 2)))

	count, err := repo.CountIssuedSince(ctxFor(tenantID), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountIssuedSince(ctxFor(uuid.New()), time.Time{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormInvoiceRepository_SaveRequiresContextTenant(t *testing.T) {
	_, tdb := setupTenantDB(t)
	repo := NewGormInvoiceRepository(tdb)
	owner := uuid.New()
	issued := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	err := repo.Save(context.Background(), newTestInvoice(t, owner, issued, 1))
	assert.ErrorIs(t, err, tenant.ErrTenantIDRequired)

	err = repo.Save(ctxFor(uuid.New()), newTestInvoice(t, owner, issued, 1))
	assert.ErrorIs(t, err, ErrTenantMismatch)

	_, total, err := repo.FindAll(ctxFor(owner), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, total)
}
