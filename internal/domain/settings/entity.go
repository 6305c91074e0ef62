package settings

import (
	"database/sql"
	"time"
)

// Setting is a keyed structured payload ("business_info", "tax", ...).
// The key is semantic and doubles as the primary identifier.
type Setting struct {
	Key         string                 `json:"key" db:"key"`
	Category    string                 `json:"category" db:"category"`
	Name        string                 `json:"name" db:"name"`
	Value       map[string]interface{} `json:"value" db:"value"`
	Description sql.NullString         `json:"description,omitempty" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Well-known setting keys.
const (
	KeyBusinessInfo = "business_info"
	KeyTax          = "tax"
)
