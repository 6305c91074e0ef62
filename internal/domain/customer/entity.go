package customer

import (
	"database/sql"
	"time"
)

type Customer struct {
	ID       int64          `json:"id" db:"id"`
	FullName string         `json:"full_name" db:"full_name"`
	Phone    string         `json:"phone" db:"phone"`
	Email    sql.NullString `json:"email,omitempty" db:"email"`
	Location sql.NullString `json:"location,omitempty" db:"location"`
	Notes    sql.NullString `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerStats aggregates a customer's booking history.
type CustomerStats struct {
	CustomerID    int64        `json:"customer_id"`
	BookingCount  int64        `json:"booking_count"`
	TotalSpent    int64        `json:"total_spent"`
	LastBookingAt sql.NullTime `json:"last_booking_at,omitempty"`
}

// CustomerWithStats is the admin list row: the customer plus aggregates.
type CustomerWithStats struct {
	Customer
	BookingCount  int64        `json:"booking_count"`
	TotalSpent    int64        `json:"total_spent"`
	LastBookingAt sql.NullTime `json:"last_booking_at,omitempty"`
}
