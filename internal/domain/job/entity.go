package job

import (
	"database/sql"
	"time"

	"mobiwash-service/internal/domain/status"
)

// Job is the operational work-order record tracking execution of a booking.
// BookingID is nullable (a job may exist without a source booking) and
// carries a storage-level UNIQUE constraint, so at most one job can ever
// reference a given booking.
type Job struct {
	ID           int64          `json:"id" db:"id"`
	JobReference string         `json:"job_reference" db:"job_reference"`
	BookingID    sql.NullInt64  `json:"booking_id,omitempty" db:"booking_id"`
	TechnicianID sql.NullInt64  `json:"technician_id,omitempty" db:"technician_id"`
	Date         time.Time      `json:"job_date" db:"job_date"`
	Status       status.Status  `json:"status" db:"status"`
	StartTime    sql.NullTime   `json:"start_time,omitempty" db:"start_time"`
	EndTime      sql.NullTime   `json:"end_time,omitempty" db:"end_time"`
	Notes        sql.NullString `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JobWithDetails joins a job with booking, customer, technician and service
// names for the work-item list.
type JobWithDetails struct {
	Job
	BookingReference string        `json:"booking_reference,omitempty"`
	CustomerID       sql.NullInt64 `json:"customer_id,omitempty"`
	CustomerName     string        `json:"customer_name,omitempty"`
	CustomerPhone    string   `json:"customer_phone,omitempty"`
	TechnicianName   string   `json:"technician_name,omitempty"`
	Location         string   `json:"location,omitempty"`
	ServiceNames     []string `json:"service_names,omitempty"`
	TotalAmount      int64    `json:"total_amount"`
}
