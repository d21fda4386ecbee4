package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/stockflow/backend/internal/application/identity"
	"github.com/stockflow/backend/internal/application/planlimit"
)

// TenantHandler serves the current tenant's plan and usage
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
	gate          *planlimit.Gate
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService, gate *planlimit.Gate) *TenantHandler {
	return &TenantHandler{tenantService: tenantService, gate: gate}
}

// GetTenant returns the current tenant with its quotas
func (h *TenantHandler) GetTenant(c *gin.Context) {
	resp, err := h.tenantService.Current(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetUsage reports quota consumption of the current tenant
func (h *TenantHandler) GetUsage(c *gin.Context) {
	report, err := h.gate.Usage(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ChangePlan switches the current tenant to another plan
func (h *TenantHandler) ChangePlan(c *gin.Context) {
	var req identityapp.ChangePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.tenantService.ChangePlan(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
