package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/finance"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds retries when a concurrent invoice took the same number.
const maxNumberAttempts = 3

// TenantReader loads tenants by id
type TenantReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// InvoiceService issues and lists invoices of the tenant in context.
type InvoiceService struct {
	invoices finance.InvoiceRepository
	tenants  TenantReader
	logger   *zap.Logger
	now      func() time.Time
	location *time.Location
}

// InvoiceServiceOption configures an InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithInvoiceClock overrides the issue time source
func WithInvoiceClock(now func() time.Time) InvoiceServiceOption {
	return func(s *InvoiceService) { s.now = now }
}

// WithInvoiceLocation sets the month boundary zone for tenants without their own timezone
func WithInvoiceLocation(loc *time.Location) InvoiceServiceOption {
	return func(s *InvoiceService) { s.location = loc }
}

// WithInvoiceLogger sets the base logger
func WithInvoiceLogger(l *zap.Logger) InvoiceServiceOption {
	return func(s *InvoiceService) { s.logger = l }
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoices finance.InvoiceRepository, tenants TenantReader, opts ...InvoiceServiceOption) *InvoiceService {
	s := &InvoiceService{
		invoices: invoices,
		tenants:  tenants,
		logger:   zap.NewNop(),
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create issues an invoice numbered INV-YYYYMM-NNNN, where NNNN restarts every
// calendar month in the tenant's timezone.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	tenantID, ok := tenantctx.TenantUUID(ctx)
	if !ok {
		return nil, shared.ErrTenantRequired
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc := tenant.Location(s.location)

	issuedAt := s.now()
	invoice, err := finance.NewInvoice(tenantID, req.CustomerName, req.Currency, req.TaxRate, issuedAt, req.lineInputs())
	if err != nil {
		return nil, err
	}

	monthStart := billing.StartOfMonth(issuedAt, loc)
	for attempt := 1; ; attempt++ {
		issued, err := s.invoices.CountIssuedSince(ctx, monthStart)
		if err != nil {
			return nil, err
		}
		invoice.AssignNumber(loc, issued+1)

		err = s.invoices.Save(ctx, invoice)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == maxNumberAttempts {
			return nil, err
		}
		logger.WithLogger(ctx, s.logger).Debug("Invoice number taken, retrying",
			zap.String("number", invoice.Number),
			zap.Int("attempt", attempt),
		)
	}

	logger.WithLogger(ctx, s.logger).Info("Invoice issued",
		zap.String("number", invoice.Number),
		zap.String("total", invoice.Total.String()),
	)
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// List lists the invoices of the tenant in context
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, int64, error) {
	if _, ok := tenantctx.TenantUUID(ctx); !ok {
		return nil, 0, shared.ErrTenantRequired
	}
	invoices, total, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, ToInvoiceResponse(&invoices[i]))
	}
	return out, total, nil
}
