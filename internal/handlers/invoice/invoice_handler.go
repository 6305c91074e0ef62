// internal/handlers/invoice/invoice_handler.go
package invoice

import (
	"net/http"
	"strconv"

	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/invoice"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// GenerateInvoice creates an invoice for a completed job
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req invoice.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.invoiceService.GenerateFromJob(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to generate invoice", err)
		return
	}

	response.Success(c, http.StatusCreated, "invoice generated", result)
}

// GetInvoice retrieves an invoice by ID
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid invoice ID", err)
		return
	}

	result, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "invoice not found", err)
		return
	}

	response.Success(c, http.StatusOK, "invoice retrieved", result)
}

// ListInvoices retrieves invoices with filters
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var filters invoice.InvoiceListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list invoices", err)
		return
	}

	response.Success(c, http.StatusOK, "invoices retrieved", result)
}

// RecordPayment marks an invoice paid
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid invoice ID", err)
		return
	}

	var req invoice.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.invoiceService.RecordPayment(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to record payment", err)
		return
	}

	response.Success(c, http.StatusOK, "payment recorded", result)
}

// CancelInvoice voids a pending or overdue invoice
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid invoice ID", err)
		return
	}

	result, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to cancel invoice", err)
		return
	}

	response.Success(c, http.StatusOK, "invoice cancelled", result)
}
