// internal/handlers/technician/technician_handler.go
package technician

import (
	"net/http"
	"strconv"

	"mobiwash-service/internal/domain/technician"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/technician"

	"github.com/gin-gonic/gin"
)

type TechnicianHandler struct {
	technicianService *service.TechnicianService
}

func NewTechnicianHandler(technicianService *service.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{
		technicianService: technicianService,
	}
}

// CreateTechnician creates a new technician
func (h *TechnicianHandler) CreateTechnician(c *gin.Context) {
	var req technician.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.technicianService.CreateTechnician(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create technician", err)
		return
	}

	response.Success(c, http.StatusCreated, "technician created", result)
}

// GetTechnician retrieves a technician by ID
func (h *TechnicianHandler) GetTechnician(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid technician ID", err)
		return
	}

	result, err := h.technicianService.GetTechnician(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "technician not found", err)
		return
	}

	response.Success(c, http.StatusOK, "technician retrieved", result)
}

// ListTechnicians lists technicians, optionally active only
func (h *TechnicianHandler) ListTechnicians(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	result, err := h.technicianService.ListTechnicians(c.Request.Context(), activeOnly)
	if err != nil {
		response.FromError(c, "failed to list technicians", err)
		return
	}

	response.Success(c, http.StatusOK, "technicians retrieved", result)
}

// UpdateTechnician updates a technician
func (h *TechnicianHandler) UpdateTechnician(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid technician ID", err)
		return
	}

	var req technician.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.technicianService.UpdateTechnician(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update technician", err)
		return
	}

	response.Success(c, http.StatusOK, "technician updated", result)
}

// DeleteTechnician removes a technician with no assigned jobs
func (h *TechnicianHandler) DeleteTechnician(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid technician ID", err)
		return
	}

	if err := h.technicianService.DeleteTechnician(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete technician", err)
		return
	}

	response.Success(c, http.StatusOK, "technician deleted", nil)
}
