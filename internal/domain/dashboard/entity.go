package dashboard

// Summary is the admin dashboard headline view. Amounts are minor currency
// units; formatting happens at presentation time only.
type Summary struct {
	BookingsToday   int64 `json:"bookings_today"`
	BookingsMonth   int64 `json:"bookings_month"`
	JobsInProgress  int64 `json:"jobs_in_progress"`
	JobsCompleted   int64 `json:"jobs_completed_month"`
	PendingInvoices int64 `json:"pending_invoices"`
	TotalCustomers  int64 `json:"total_customers"`
	RevenueToday    int64 `json:"revenue_today"`
	RevenueMonth    int64 `json:"revenue_month"`
	JobsAutoCreated int64 `json:"jobs_auto_created,omitempty"`
}

// MonthRevenue is one bucket of the accounting breakdown.
type MonthRevenue struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	Invoiced int64 `json:"invoiced"`
	Paid     int64 `json:"paid"`
}

// AccountingSummary backs the accounting view and its export.
type AccountingSummary struct {
	TotalInvoiced int64          `json:"total_invoiced"`
	TotalPaid     int64          `json:"total_paid"`
	TotalPending  int64          `json:"total_pending"`
	TotalOverdue  int64          `json:"total_overdue"`
	ByMonth       []MonthRevenue `json:"by_month"`
}
