// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"net/http"
	"strconv"

	"mobiwash-service/internal/domain/catalog"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListPublicServices lists active services for the marketing site
func (h *CatalogHandler) ListPublicServices(c *gin.Context) {
	result, err := h.catalogService.ListServices(c.Request.Context(), &catalog.ServiceListFilters{ActiveOnly: true})
	if err != nil {
		response.FromError(c, "failed to list services", err)
		return
	}

	response.Success(c, http.StatusOK, "services retrieved", result)
}

// CreateService creates a catalog service
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req catalog.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.catalogService.CreateService(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create service", err)
		return
	}

	response.Success(c, http.StatusCreated, "service created", result)
}

// GetService retrieves a service by ID
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid service ID", err)
		return
	}

	result, err := h.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "service not found", err)
		return
	}

	response.Success(c, http.StatusOK, "service retrieved", result)
}

// ListServices lists services with admin filters
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var filters catalog.ServiceListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.catalogService.ListServices(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list services", err)
		return
	}

	response.Success(c, http.StatusOK, "services retrieved", result)
}

// UpdateService updates a service
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid service ID", err)
		return
	}

	var req catalog.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.catalogService.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update service", err)
		return
	}

	response.Success(c, http.StatusOK, "service updated", result)
}

// SetActive toggles a service's visibility
func (h *CatalogHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid service ID", err)
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.catalogService.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		response.FromError(c, "failed to update service", err)
		return
	}

	response.Success(c, http.StatusOK, "service updated", nil)
}

// DeleteService removes a service that has never been booked
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid service ID", err)
		return
	}

	if err := h.catalogService.DeleteService(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete service", err)
		return
	}

	response.Success(c, http.StatusOK, "service deleted", nil)
}
