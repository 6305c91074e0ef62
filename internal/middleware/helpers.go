// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetStaffID gets the authenticated staff ID from context
func GetStaffID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("staff_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetStaffID gets the staff ID from context or panics
func MustGetStaffID(c *gin.Context) int64 {
	id, exists := GetStaffID(c)
	if !exists {
		panic("staff_id not found in context")
	}
	return id
}

// GetJTI gets the token ID from context
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}

// MustGetJTI gets the token ID from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetRole gets the authenticated staff role from context
func GetRole(c *gin.Context) string {
	v, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := v.(string)
	return role
}

// IsSuperAdmin checks if the authenticated staff is a super admin
func IsSuperAdmin(c *gin.Context) bool {
	return GetRole(c) == "super_admin"
}
