package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/stockflow/backend/internal/application/partner"
)

// WarehouseHandler handles warehouse-related API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *partnerapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *partnerapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create creates a warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req partnerapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	list, ok := h.bindList(c)
	if !ok {
		return
	}
	warehouses, total, err := h.warehouseService.List(c.Request.Context(), list.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, list.Page, list.PageSize)
}
