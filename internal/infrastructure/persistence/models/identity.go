package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
)

// TenantModel is the persistence model for the Tenant domain entity.
// Quota columns use -1 for unlimited.
type TenantModel struct {
	BaseModel
	Code          string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string                `gorm:"type:varchar(200);not null"`
	Plan          string                `gorm:"type:varchar(20);not null"`
	Status        identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	MaxUsers      int                   `gorm:"not null"`
	MaxProducts   int                   `gorm:"not null"`
	MaxInvoices   int                   `gorm:"not null"`
	MaxWarehouses int                   `gorm:"not null"`
	Timezone      string                `gorm:"type:varchar(64);not null;default:''"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the row to a Tenant. Invalid quota columns are an error.
func (m *TenantModel) ToDomain() (*identity.Tenant, error) {
	var quotas billing.PlanQuotas
	columns := []struct {
		value int
		dst   *billing.Quota
		name  string
	}{
		{m.MaxUsers, &quotas.Users, "max_users"},
		{m.MaxProducts, &quotas.Products, "max_products"},
		{m.MaxInvoices, &quotas.Invoices, "max_invoices"},
		{m.MaxWarehouses, &quotas.Warehouses, "max_warehouses"},
	}
	for _, c := range columns {
		q, err := billing.QuotaFromSentinel(c.value)
		if err != nil {
			return nil, fmt.Errorf("tenant %s %s: %w", m.ID, c.name, err)
		}
		*c.dst = q
	}

	return &identity.Tenant{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Plan:       billing.Plan(m.Plan),
		Status:     m.Status,
		Quotas:     quotas,
		Timezone:   m.Timezone,
	}, nil
}

// FromDomain populates the row from a Tenant
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Code = t.Code
	m.Name = t.Name
	m.Plan = t.Plan.String()
	m.Status = t.Status
	m.MaxUsers = t.Quotas.Users.Sentinel()
	m.MaxProducts = t.Quotas.Products.Sentinel()
	m.MaxInvoices = t.Quotas.Invoices.Sentinel()
	m.MaxWarehouses = t.Quotas.Warehouses.Sentinel()
	m.Timezone = t.Timezone
}

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantOwnedModel
	Email        string              `gorm:"type:varchar(200);not null"`
	Name         string              `gorm:"type:varchar(100)"`
	Role         identity.Role       `gorm:"type:varchar(20);not null"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null"`
	PasswordHash string              `gorm:"type:varchar(255)"`
	InviteToken  *string             `gorm:"type:varchar(64);uniqueIndex"`
	InvitedBy    *uuid.UUID          `gorm:"type:uuid"`
	AcceptedAt   *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the row to a User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		TenantID:     m.TenantID,
		Email:        m.Email,
		Name:         m.Name,
		Role:         m.Role,
		Status:       m.Status,
		PasswordHash: m.PasswordHash,
		InvitedBy:    m.InvitedBy,
		AcceptedAt:   m.AcceptedAt,
	}
	if m.InviteToken != nil {
		u.InviteToken = *m.InviteToken
	}
	return u
}

// FromDomain populates the row from a User. An empty token is stored as NULL
// so the unique index only covers pending invitations.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.TenantID = u.TenantID
	m.Email = u.Email
	m.Name = u.Name
	m.Role = u.Role
	m.Status = u.Status
	m.PasswordHash = u.PasswordHash
	m.InviteToken = nil
	if u.InviteToken != "" {
		token := u.InviteToken
		m.InviteToken = &token
	}
	m.InvitedBy = u.InvitedBy
	m.AcceptedAt = u.AcceptedAt
}
