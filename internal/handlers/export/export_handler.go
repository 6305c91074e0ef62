// internal/handlers/export/export_handler.go
package export

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/customer"
	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/export"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportBookings downloads the filtered booking list as xlsx
func (h *ExportHandler) ExportBookings(c *gin.Context) {
	var filters booking.BookingListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	f, err := h.exportService.ExportBookings(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to export bookings", err)
		return
	}

	h.send(c, f, "bookings")
}

// ExportCustomers downloads the customer list as xlsx
func (h *ExportHandler) ExportCustomers(c *gin.Context) {
	var filters customer.CustomerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	f, err := h.exportService.ExportCustomers(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to export customers", err)
		return
	}

	h.send(c, f, "customers")
}

// ExportInvoices downloads the filtered invoice list as xlsx
func (h *ExportHandler) ExportInvoices(c *gin.Context) {
	var filters invoice.InvoiceListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	f, err := h.exportService.ExportInvoices(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to export invoices", err)
		return
	}

	h.send(c, f, "invoices")
}

// ExportWorkItems downloads the unified work list as xlsx
func (h *ExportHandler) ExportWorkItems(c *gin.Context) {
	var filters job.WorkItemListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	f, err := h.exportService.ExportWorkItems(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to export work items", err)
		return
	}

	h.send(c, f, "jobs")
}

// ExportAccounting downloads the accounting summary as xlsx
func (h *ExportHandler) ExportAccounting(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	f, err := h.exportService.ExportAccounting(c.Request.Context(), months)
	if err != nil {
		response.FromError(c, "failed to export accounting summary", err)
		return
	}

	h.send(c, f, "accounting")
}

func (h *ExportHandler) send(c *gin.Context, f *excelize.File, name string) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		// Headers are already out, all we can do is log via gin's error list.
		c.Error(err)
	}
}
