package catalog

import (
	"database/sql"
	"time"
)

// Service is a catalog entry the business offers. Price is in minor
// currency units. Active governs visibility in public booking forms.
type Service struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Price       int64          `json:"price" db:"price"`
	Active      bool           `json:"active" db:"active"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
