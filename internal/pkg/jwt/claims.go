// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims for a staff session
type Claims struct {
	StaffID int64  `json:"staff_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// IsSuperAdmin checks if the token belongs to a super admin
func (c *Claims) IsSuperAdmin() bool {
	return c.Role == "super_admin"
}

// IsAdmin checks if the token belongs to an admin (including super admin)
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin" || c.Role == "super_admin"
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		// If audience is required but missing
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
