// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"
	"strconv"

	"mobiwash-service/internal/domain/staff"
	"mobiwash-service/internal/middleware"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a staff member and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req staff.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, "login failed", err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// Logout revokes the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	staffID := middleware.MustGetStaffID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), staffID, jti); err != nil {
		response.FromError(c, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// LogoutAll revokes every session of the current staff member
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	staffID := middleware.MustGetStaffID(c)

	if err := h.authService.LogoutAll(c.Request.Context(), staffID); err != nil {
		response.FromError(c, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions revoked", nil)
}

// ChangePassword updates the current staff member's password and revokes
// existing sessions
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	staffID := middleware.MustGetStaffID(c)

	var req staff.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), staffID, &req); err != nil {
		response.FromError(c, "failed to change password", err)
		return
	}

	response.Success(c, http.StatusOK, "password changed", nil)
}

// CreateStaff creates a staff account. Super admin only.
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req staff.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create staff", err)
		return
	}

	response.Success(c, http.StatusCreated, "staff created", result)
}

// ListStaff lists staff accounts. Super admin only.
func (h *AuthHandler) ListStaff(c *gin.Context) {
	result, err := h.authService.ListStaff(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list staff", err)
		return
	}

	response.Success(c, http.StatusOK, "staff retrieved", result)
}

// SetStaffActive enables or disables a staff account. Super admin only.
func (h *AuthHandler) SetStaffActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid staff ID", err)
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.SetStaffActive(c.Request.Context(), id, *req.Active); err != nil {
		response.FromError(c, "failed to update staff", err)
		return
	}

	response.Success(c, http.StatusOK, "staff updated", nil)
}
