// Package planlimit enforces subscription plan quotas ahead of resource-creating
// operations.
//
// Quotas are advisory: the gate counts existing resources and lets the
// operation run when the count is below the ceiling, without holding a lock
// until the resource is stored. Two concurrent creations may therefore both
// pass when a tenant is one resource below its limit.
package planlimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/stockflow/backend/internal/application/planlimit"

// TenantReader loads tenants by id. A missing tenant yields shared.ErrNotFound.
type TenantReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// ResourceCounter counts a tenant's resources of one kind created at or after
// since. A zero since counts every resource.
type ResourceCounter interface {
	CountResources(ctx context.Context, tenantID uuid.UUID, kind billing.LimitType, since time.Time) (int64, error)
}

// Decision outcomes recorded on the plan_limit_decisions_total counter.
const (
	outcomeAllowed        = "allowed"
	outcomeUnlimited      = "allowed_unlimited"
	outcomeBypassed       = "bypassed"
	outcomeLimitReached   = "denied_limit"
	outcomeNoIdentity     = "denied_unauthenticated"
	outcomeNoTenant       = "denied_no_tenant"
	outcomeTenantNotFound = "denied_tenant_not_found"
	outcomeError          = "error"
)

// Gate decides whether a tenant may create one more resource of a kind.
// Every decision re-reads the tenant and re-counts; nothing is cached.
type Gate struct {
	tenants   TenantReader
	counter   ResourceCounter
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location
	decisions metric.Int64Counter
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the base logger. Entries also carry the request correlation fields.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithClock overrides the time source used for monthly windows.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithLocation sets the timezone of monthly windows for tenants without their own.
func WithLocation(loc *time.Location) Option {
	return func(g *Gate) { g.location = loc }
}

// WithMeterProvider sets where decision metrics are recorded. Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(g *Gate) { g.decisions = newDecisionCounter(mp) }
}

// NewGate creates a Gate.
func NewGate(tenants TenantReader, counter ResourceCounter, opts ...Option) *Gate {
	g := &Gate{
		tenants:  tenants,
		counter:  counter,
		logger:   zap.NewNop(),
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.decisions == nil {
		g.decisions = newDecisionCounter(otel.GetMeterProvider())
	}
	return g
}

func newDecisionCounter(mp metric.MeterProvider) metric.Int64Counter {
	c, err := mp.Meter(instrumentationName).Int64Counter(
		"plan_limit_decisions_total",
		metric.WithDescription("Plan limit decisions by limit type and outcome"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return c
}

// Guard runs fn when op is allowed and returns fn's error unchanged.
// Unannotated operations and operations not invoked over HTTP always run.
func (g *Gate) Guard(ctx context.Context, op Operation, fn func(ctx context.Context) error) error {
	_, err := Invoke(ctx, g, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Invoke runs fn when op is allowed and returns fn's result and error unchanged.
func Invoke[T any](ctx context.Context, g *Gate, op Operation, fn func(ctx context.Context) (T, error)) (T, error) {
	if !op.Annotated() {
		return fn(ctx)
	}
	if op.Transport != TransportHTTP {
		g.record(ctx, op.Limit, outcomeBypassed)
		return fn(ctx)
	}
	if err := g.Check(ctx, op.Limit); err != nil {
		var zero T
		return zero, err
	}
	return fn(ctx)
}

// Check decides whether the authenticated tenant may create one more resource
// of kind limit. It returns nil, a FORBIDDEN *shared.DomainError, or a wrapped
// infrastructure error.
func (g *Gate) Check(ctx context.Context, limit billing.LimitType) error {
	if !limit.IsValid() {
		g.record(ctx, limit, outcomeError)
		return fmt.Errorf("unknown limit type %q", limit)
	}
	log := logger.WithLogger(ctx, g.logger).With(zap.String("limit", limit.String()))

	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		log.Warn("Plan limit check without authenticated identity")
		g.record(ctx, limit, outcomeNoIdentity)
		return ErrAuthenticationRequired
	}
	if id.TenantID == "" {
		log.Warn("Plan limit check without tenant", zap.String("subject", id.Subject))
		g.record(ctx, limit, outcomeNoTenant)
		return ErrTenantContextRequired
	}

	tenant, err := g.loadTenant(ctx, id.TenantID)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			log.Error("Plan limit check for unknown tenant", zap.String("tenant", id.TenantID))
			g.record(ctx, limit, outcomeTenantNotFound)
			return ErrTenantNotFound
		}
		g.record(ctx, limit, outcomeError)
		return err
	}

	quota := tenant.QuotaFor(limit)
	max, limited := quota.Max()
	if !limited {
		g.record(ctx, limit, outcomeUnlimited)
		return nil
	}

	since := limit.Window().Since(g.now(), tenant.Location(g.location))
	count, err := g.counter.CountResources(ctx, tenant.ID, limit, since)
	if err != nil {
		g.record(ctx, limit, outcomeError)
		return fmt.Errorf("count %s for tenant %s: %w", limit, tenant.ID, err)
	}

	if !quota.Allows(count) {
		log.Debug("Plan limit reached",
			zap.String("tenant", tenant.ID.String()),
			zap.String("plan", tenant.Plan.String()),
			zap.Int64("current", count),
			zap.Int64("max", max),
		)
		g.record(ctx, limit, outcomeLimitReached)
		return ErrLimitReached(limit, max)
	}

	g.record(ctx, limit, outcomeAllowed)
	return nil
}

func (g *Gate) loadTenant(ctx context.Context, rawID string) (*identity.Tenant, error) {
	tenantID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrTenantNotFound
	}
	tenant, err := g.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

func (g *Gate) record(ctx context.Context, limit billing.LimitType, outcome string) {
	if g.decisions == nil {
		return
	}
	g.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("limit", limit.String()),
		attribute.String("outcome", outcome),
	))
}
