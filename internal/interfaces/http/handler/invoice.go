package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/stockflow/backend/internal/application/finance"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *financeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create issues an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req financeapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists invoices with their lines
func (h *InvoiceHandler) List(c *gin.Context) {
	list, ok := h.bindList(c)
	if !ok {
		return
	}
	invoices, total, err := h.invoiceService.List(c.Request.Context(), list.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, list.Page, list.PageSize)
}
