package identity

import (
	"testing"
	"time"

	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates tenant with plan quotas", func(t *testing.T) {
		tenant, err := NewTenant("shop01", "Corner Shop", billing.PlanPyme)

		require.NoError(t, err)
		assert.Equal(t, "SHOP01", tenant.Code)
		assert.Equal(t, "Corner Shop", tenant.Name)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, billing.PlanPyme, tenant.Plan)
		assert.Equal(t, billing.Limited(3), tenant.QuotaFor(billing.LimitUsers))
		assert.Equal(t, billing.Limited(1), tenant.QuotaFor(billing.LimitWarehouses))
		assert.True(t, tenant.IsActive())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		tenant, err := NewTenant("", "Corner Shop", billing.PlanPyme)

		assert.Nil(t, tenant)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewTenant("SHOP@01", "Corner Shop", billing.PlanPyme)
		assert.Contains(t, err.Error(), "can only contain")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewTenant("SHOP01", "", billing.PlanPyme)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with unknown plan", func(t *testing.T) {
		_, err := NewTenant("SHOP01", "Corner Shop", billing.Plan("GOLD"))
		assert.Error(t, err)
	})
}

func TestTenant_ChangePlan(t *testing.T) {
	tenant, err := NewTenant("SHOP01", "Corner Shop", billing.PlanPyme)
	require.NoError(t, err)

	require.NoError(t, tenant.ChangePlan(billing.PlanEnterprise))
	assert.Equal(t, billing.PlanEnterprise, tenant.Plan)
	assert.False(t, tenant.UpdatedAt.Before(tenant.CreatedAt))
	for _, l := range billing.AllLimitTypes() {
		assert.True(t, tenant.QuotaFor(l).IsUnlimited(), l)
	}

	require.NoError(t, tenant.ChangePlan(billing.PlanPlus))
	assert.Equal(t, billing.Limited(1000), tenant.QuotaFor(billing.LimitInvoices))

	assert.Error(t, tenant.ChangePlan(billing.Plan("")))
	assert.Equal(t, billing.PlanPlus, tenant.Plan)
}

func TestTenant_Location(t *testing.T) {
	tenant := &Tenant{}
	assert.Equal(t, time.UTC, tenant.Location(time.UTC))

	tenant.Timezone = "America/Bogota"
	assert.Equal(t, "America/Bogota", tenant.Location(time.UTC).String())

	tenant.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, tenant.Location(time.UTC))
}
