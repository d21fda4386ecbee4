package planlimit

import (
	"context"
	"fmt"

	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
)

// ResourceUsage is a tenant's consumption of one quota.
type ResourceUsage struct {
	Limit     billing.LimitType `json:"limit"`
	Current   int64             `json:"current"`
	Max       int64             `json:"max"`
	Unlimited bool              `json:"unlimited"`
}

// UsageReport is the quota consumption of the tenant in context.
type UsageReport struct {
	TenantID string          `json:"tenant_id"`
	Plan     billing.Plan    `json:"plan"`
	Usage    []ResourceUsage `json:"usage"`
}

// Usage reports consumption for every limit type of the tenant in the request
// context. Unlimited quotas are reported without counting.
func (g *Gate) Usage(ctx context.Context) (*UsageReport, error) {
	rawID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return nil, ErrTenantContextRequired
	}
	tenant, err := g.loadTenant(ctx, rawID)
	if err != nil {
		return nil, err
	}

	now := g.now()
	loc := tenant.Location(g.location)
	report := &UsageReport{TenantID: tenant.ID.String(), Plan: tenant.Plan}

	for _, limit := range billing.AllLimitTypes() {
		quota := tenant.QuotaFor(limit)
		max, limited := quota.Max()
		if !limited {
			report.Usage = append(report.Usage, ResourceUsage{Limit: limit, Unlimited: true})
			continue
		}
		count, err := g.counter.CountResources(ctx, tenant.ID, limit, limit.Window().Since(now, loc))
		if err != nil {
			return nil, fmt.Errorf("count %s for tenant %s: %w", limit, tenant.ID, err)
		}
		report.Usage = append(report.Usage, ResourceUsage{Limit: limit, Current: count, Max: max})
	}
	return report, nil
}
