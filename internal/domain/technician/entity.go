package technician

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Technician struct {
	ID       int64          `json:"id" db:"id"`
	FullName string         `json:"full_name" db:"full_name"`
	Email    sql.NullString `json:"email,omitempty" db:"email"`
	Phone    sql.NullString `json:"phone,omitempty" db:"phone"`
	Active   bool           `json:"active" db:"active"`
	Skills   pq.StringArray `json:"skills,omitempty" db:"skills"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
