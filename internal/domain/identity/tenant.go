package identity

import (
	"strings"
	"time"

	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is an isolated customer organization with its own plan quotas.
type Tenant struct {
	shared.BaseEntity
	Code   string
	Name   string
	Plan   billing.Plan
	Status TenantStatus
	Quotas billing.PlanQuotas
	// Timezone is an IANA zone name used for monthly quota windows. Empty means the service default.
	Timezone string
}

// NewTenant creates an active tenant on the given plan with the plan's default quotas
func NewTenant(code, name string, plan billing.Plan) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	quotas, err := plan.DefaultQuotas()
	if err != nil {
		return nil, err
	}

	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(code),
		Name:       name,
		Plan:       plan,
		Status:     TenantStatusActive,
		Quotas:     quotas,
	}, nil
}

// ChangePlan moves the tenant to another plan and resets its quotas to the plan defaults
func (t *Tenant) ChangePlan(plan billing.Plan) error {
	quotas, err := plan.DefaultQuotas()
	if err != nil {
		return err
	}
	t.Plan = plan
	t.Quotas = quotas
	t.Touch(time.Now())
	return nil
}

// QuotaFor returns the tenant's quota for a limit type
func (t *Tenant) QuotaFor(l billing.LimitType) billing.Quota {
	return t.Quotas.For(l)
}

// Location resolves the tenant timezone, falling back to def when unset or unknown
func (t *Tenant) Location(def *time.Location) *time.Location {
	if t.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return def
	}
	return loc
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

func validateTenantCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateTenantName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
