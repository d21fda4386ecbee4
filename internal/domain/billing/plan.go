package billing

import "github.com/stockflow/backend/internal/domain/shared"

// Plan is a subscription tier fixing a tenant's resource quotas.
type Plan string

const (
	PlanPyme       Plan = "PYME"
	PlanPlus       Plan = "PLUS"
	PlanEnterprise Plan = "ENTERPRISE"
)

// PlanQuotas holds one Quota per LimitType.
type PlanQuotas struct {
	Users      Quota
	Products   Quota
	Invoices   Quota
	Warehouses Quota
}

// For returns the quota of the given limit type.
// Unknown limit types resolve to Limited(0).
func (p PlanQuotas) For(l LimitType) Quota {
	switch l {
	case LimitUsers:
		return p.Users
	case LimitProducts:
		return p.Products
	case LimitInvoices:
		return p.Invoices
	case LimitWarehouses:
		return p.Warehouses
	default:
		return Limited(0)
	}
}

var planCatalog = map[Plan]PlanQuotas{
	PlanPyme: {
		Users:      Limited(3),
		Products:   Limited(500),
		Invoices:   Limited(100),
		Warehouses: Limited(1),
	},
	PlanPlus: {
		Users:      Limited(10),
		Products:   Limited(5000),
		Invoices:   Limited(1000),
		Warehouses: Limited(5),
	},
	PlanEnterprise: {
		Users:      Unlimited(),
		Products:   Unlimited(),
		Invoices:   Unlimited(),
		Warehouses: Unlimited(),
	},
}

// IsValid returns true if the plan is in the catalog
func (p Plan) IsValid() bool {
	_, ok := planCatalog[p]
	return ok
}

// String returns the string representation of Plan
func (p Plan) String() string {
	return string(p)
}

// DefaultQuotas returns the catalog quotas of the plan.
func (p Plan) DefaultQuotas() (PlanQuotas, error) {
	q, ok := planCatalog[p]
	if !ok {
		return PlanQuotas{}, shared.NewDomainError("INVALID_PLAN", "Invalid subscription plan")
	}
	return q, nil
}
