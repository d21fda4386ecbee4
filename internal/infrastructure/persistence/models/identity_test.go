package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantModel_QuotaSentinels(t *testing.T) {
	tenant, err := identity.NewTenant("SHOP", "Shop", billing.PlanEnterprise)
	require.NoError(t, err)
	tenant.Quotas.Warehouses = billing.Limited(2)

	var m TenantModel
	m.FromDomain(tenant)
	assert.Equal(t, -1, m.MaxUsers)
	assert.Equal(t, -1, m.MaxInvoices)
	assert.Equal(t, 2, m.MaxWarehouses)

	back, err := m.ToDomain()
	require.NoError(t, err)
	assert.True(t, back.QuotaFor(billing.LimitProducts).IsUnlimited())
	assert.Equal(t, billing.Limited(2), back.QuotaFor(billing.LimitWarehouses))
}

func TestTenantModel_RejectsCorruptQuota(t *testing.T) {
	m := TenantModel{BaseModel: BaseModel{ID: uuid.New()}, Plan: "PYME", MaxUsers: -7}

	_, err := m.ToDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_users")
}

func TestUserModel_InviteTokenNullable(t *testing.T) {
	u, err := identity.NewInvitedUser(uuid.New(), "a@example.com", "A", identity.RoleMember, nil)
	require.NoError(t, err)

	var m UserModel
	m.FromDomain(u)
	require.NotNil(t, m.InviteToken)
	assert.Equal(t, u.InviteToken, *m.InviteToken)

	u.InviteToken = ""
	m.FromDomain(u)
	assert.Nil(t, m.InviteToken)
	assert.Empty(t, m.ToDomain().InviteToken)
}
