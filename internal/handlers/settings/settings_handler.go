// internal/handlers/settings/settings_handler.go
package settings

import (
	"net/http"

	"mobiwash-service/internal/domain/settings"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// UpsertSetting creates or replaces a setting
func (h *SettingsHandler) UpsertSetting(c *gin.Context) {
	var req settings.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.settingsService.UpsertSetting(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to save setting", err)
		return
	}

	response.Success(c, http.StatusOK, "setting saved", result)
}

// GetSetting retrieves a setting by key
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.ValidationError(c, "setting key is required", nil)
		return
	}

	result, err := h.settingsService.GetSetting(c.Request.Context(), key)
	if err != nil {
		response.FromError(c, "setting not found", err)
		return
	}

	response.Success(c, http.StatusOK, "setting retrieved", result)
}

// ListSettings lists settings, optionally by category
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	result, err := h.settingsService.ListSettings(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.FromError(c, "failed to list settings", err)
		return
	}

	response.Success(c, http.StatusOK, "settings retrieved", result)
}

// DeleteSetting removes a setting by key
func (h *SettingsHandler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.ValidationError(c, "setting key is required", nil)
		return
	}

	if err := h.settingsService.DeleteSetting(c.Request.Context(), key); err != nil {
		response.FromError(c, "failed to delete setting", err)
		return
	}

	response.Success(c, http.StatusOK, "setting deleted", nil)
}
