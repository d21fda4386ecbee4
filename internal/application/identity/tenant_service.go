package identity

import (
	"context"

	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
	"go.uber.org/zap"
)

// TenantService handles plan management of the tenant in context
type TenantService struct {
	tenants identity.TenantRepository
	logger  *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenants identity.TenantRepository, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{tenants: tenants, logger: logger}
}

// Current returns the tenant in context
func (s *TenantService) Current(ctx context.Context) (*TenantResponse, error) {
	tenant, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// ChangePlan switches the tenant in context to plan and applies the plan's
// quotas. Only owners and admins may change the plan.
func (s *TenantService) ChangePlan(ctx context.Context, req ChangePlanRequest) (*TenantResponse, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok || !identity.Role(id.Role).CanManageTenant() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only owners and admins can change the plan")
	}

	tenant, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	previous := tenant.Plan
	if err := tenant.ChangePlan(billing.Plan(req.Plan)); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Tenant plan changed",
		zap.String("from", previous.String()),
		zap.String("to", tenant.Plan.String()),
	)
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

func (s *TenantService) load(ctx context.Context) (*identity.Tenant, error) {
	tenantID, ok := tenantctx.TenantUUID(ctx)
	if !ok {
		return nil, shared.ErrTenantRequired
	}
	return s.tenants.FindByID(ctx, tenantID)
}
