package booking

import (
	"database/sql"
	"time"

	"mobiwash-service/internal/domain/status"
)

// Booking is a customer's scheduled request for one or more services at a
// date/time/location. TotalAmount is the sum of price_at_booking across the
// booking's service rows; the repository keeps both in sync inside one
// transaction.
type Booking struct {
	ID               int64          `json:"id" db:"id"`
	BookingReference string         `json:"booking_reference" db:"booking_reference"`
	CustomerID       sql.NullInt64  `json:"customer_id,omitempty" db:"customer_id"`
	Date             time.Time      `json:"booking_date" db:"booking_date"`
	TimeSlot         string         `json:"time_slot" db:"time_slot"`
	Location         string         `json:"location" db:"location"`
	Notes            sql.NullString `json:"notes,omitempty" db:"notes"`
	Status           status.Status  `json:"status" db:"status"`
	TotalAmount      int64          `json:"total_amount" db:"total_amount"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ServiceLine is one row of the booking/service association, carrying the
// price snapshot taken when the service was attached.
type ServiceLine struct {
	BookingID      int64  `json:"booking_id" db:"booking_id"`
	ServiceID      int64  `json:"service_id" db:"service_id"`
	ServiceName    string `json:"service_name,omitempty" db:"service_name"`
	Quantity       int    `json:"quantity" db:"quantity"`
	PriceAtBooking int64  `json:"price_at_booking" db:"price_at_booking"`
}

// BookingWithDetails joins the booking with customer and service names for
// admin list views.
type BookingWithDetails struct {
	Booking
	CustomerName  string        `json:"customer_name,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	Services      []ServiceLine `json:"services"`
}
