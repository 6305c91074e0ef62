package staff

import (
	"database/sql"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Staff struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session is the durable record of an issued token; redis holds the hot copy.
type Session struct {
	ID        int64          `json:"id" db:"id"`
	StaffID   int64          `json:"staff_id" db:"staff_id"`
	JTI       string         `json:"jti" db:"jti"`
	IPAddress sql.NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent sql.NullString `json:"user_agent,omitempty" db:"user_agent"`
	LoginAt   time.Time      `json:"login_at" db:"login_at"`
	ExpiresAt time.Time      `json:"expires_at" db:"expires_at"`
	RevokedAt sql.NullTime   `json:"revoked_at,omitempty" db:"revoked_at"`
}
