package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
)

// CreateWarehouseRequest represents a request to create a new warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"max=500"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		TenantID:  w.TenantID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
	}
}

// WarehouseService handles warehouse-related business operations
type WarehouseService struct {
	warehouseRepo partner.WarehouseRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo partner.WarehouseRepository) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo}
}

// Create creates a warehouse in the tenant of the request context
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	tenantID, ok := tenantctx.TenantUUID(ctx)
	if !ok {
		return nil, shared.ErrTenantRequired
	}

	exists, err := s.warehouseRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	warehouse, err := partner.NewWarehouse(tenantID, req.Code, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// List lists the warehouses of the tenant in context
func (s *WarehouseService) List(ctx context.Context, filter shared.Filter) ([]WarehouseResponse, int64, error) {
	if _, ok := tenantctx.TenantUUID(ctx); !ok {
		return nil, 0, shared.ErrTenantRequired
	}
	warehouses, total, err := s.warehouseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, ToWarehouseResponse(&warehouses[i]))
	}
	return out, total, nil
}
