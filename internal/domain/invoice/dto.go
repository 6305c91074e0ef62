package invoice

import "time"

type GenerateInvoiceRequest struct {
	JobID   int64  `json:"job_id" binding:"required"`
	DueDays int    `json:"due_days" binding:"omitempty,min=0,max=365"`
	Notes   string `json:"notes"`
}

type RecordPaymentRequest struct {
	PaymentMethod string     `json:"payment_method" binding:"required,max=50"`
	PaymentDate   *time.Time `json:"payment_date"`
}

type InvoiceListFilters struct {
	PaymentStatus string `form:"payment_status"`
	CustomerID    int64  `form:"customer_id"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

type InvoiceListResponse struct {
	Invoices   []InvoiceWithDetails `json:"invoices"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}
