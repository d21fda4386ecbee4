package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID. Returns shared.ErrNotFound when missing.
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository defines the interface for team member persistence.
// Methods other than FindByInviteToken are scoped to the tenant of the request context.
type UserRepository interface {
	// FindAll lists the team members of the current tenant
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)

	// ExistsByEmail checks whether the current tenant already has a member with the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByInviteToken finds a pending invitation across tenants
	FindByInviteToken(ctx context.Context, token string) (*User, error)

	// Save creates or updates a team member
	Save(ctx context.Context, user *User) error
}
