package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Warehouse represents a stock location owned by a tenant
type Warehouse struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Code     string
	Name     string
	Address  string
}

// NewWarehouse creates a new warehouse
func NewWarehouse(tenantID uuid.UUID, code, name, address string) (*Warehouse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if err := validateWarehouseCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 100 characters")
	}
	if len(address) > 500 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Code:       strings.ToUpper(code),
		Name:       name,
		Address:    address,
	}, nil
}

func validateWarehouseCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
