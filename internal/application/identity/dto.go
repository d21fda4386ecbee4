package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/domain/identity"
)

// InviteMemberRequest represents a request to invite a team member
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
	Name  string `json:"name" binding:"max=100"`
	Role  string `json:"role" binding:"required,oneof=admin member"`
}

// AcceptInvitationRequest represents a request to accept an invitation
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required,len=48,hexadecimal"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ChangePlanRequest represents a request to switch the tenant's plan
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=PYME PLUS ENTERPRISE"`
}

// MemberResponse represents a team member in API responses
type MemberResponse struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	InvitedBy  *uuid.UUID `json:"invited_by,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// InvitationResponse is returned when a member is invited. The token is
// handed to the inviter, who delivers it to the invitee.
type InvitationResponse struct {
	MemberResponse
	InviteToken string `json:"invite_token"`
}

// QuotaResponse lists the tenant quotas; -1 means unlimited
type QuotaResponse struct {
	Users      int `json:"users"`
	Products   int `json:"products"`
	Invoices   int `json:"invoices_per_month"`
	Warehouses int `json:"warehouses"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID       uuid.UUID     `json:"id"`
	Code     string        `json:"code"`
	Name     string        `json:"name"`
	Plan     string        `json:"plan"`
	Status   string        `json:"status"`
	Timezone string        `json:"timezone,omitempty"`
	Quotas   QuotaResponse `json:"quotas"`
}

// ToMemberResponse converts a domain User to MemberResponse
func ToMemberResponse(u *identity.User) MemberResponse {
	return MemberResponse{
		ID:         u.ID,
		TenantID:   u.TenantID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Status:     string(u.Status),
		InvitedBy:  u.InvitedBy,
		AcceptedAt: u.AcceptedAt,
		CreatedAt:  u.CreatedAt,
	}
}

// ToTenantResponse converts a domain Tenant to TenantResponse
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:       t.ID,
		Code:     t.Code,
		Name:     t.Name,
		Plan:     t.Plan.String(),
		Status:   string(t.Status),
		Timezone: t.Timezone,
		Quotas: QuotaResponse{
			Users:      t.QuotaFor(billing.LimitUsers).Sentinel(),
			Products:   t.QuotaFor(billing.LimitProducts).Sentinel(),
			Invoices:   t.QuotaFor(billing.LimitInvoices).Sentinel(),
			Warehouses: t.QuotaFor(billing.LimitWarehouses).Sentinel(),
		},
	}
}
