package booking

import (
	"time"

	"mobiwash-service/internal/domain/status"
)

type ServiceSelection struct {
	ServiceID int64 `json:"service_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"omitempty,min=1"`
}

type CreateBookingRequest struct {
	CustomerID    *int64             `json:"customer_id"`
	CustomerName  string             `json:"customer_name" binding:"max=255"`
	CustomerPhone string             `json:"customer_phone" binding:"max=20"`
	Date          time.Time          `json:"booking_date" binding:"required"`
	TimeSlot      string             `json:"time_slot" binding:"required,max=50"`
	Location      string             `json:"location" binding:"required,max=500"`
	Notes         string             `json:"notes"`
	Status        status.Status      `json:"status"`
	Services      []ServiceSelection `json:"services" binding:"required,min=1,dive"`
}

type UpdateBookingRequest struct {
	CustomerID *int64     `json:"customer_id"`
	Date       *time.Time `json:"booking_date"`
	TimeSlot   *string    `json:"time_slot" binding:"omitempty,max=50"`
	Location   *string    `json:"location" binding:"omitempty,max=500"`
	Notes      *string    `json:"notes"`
	// When set, replaces the whole service selection and recomputes the
	// booking total in the same transaction.
	Services []ServiceSelection `json:"services" binding:"omitempty,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status status.Status `json:"status" binding:"required"`
}

type BookingListFilters struct {
	Status   string `form:"status"`
	Search   string `form:"search"` // reference, customer name or phone
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type BookingListResponse struct {
	Bookings   []BookingWithDetails `json:"bookings"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}
