package invoice

import (
	"database/sql"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// Invoice amounts are minor currency units; TotalAmount = Amount + TaxAmount.
type Invoice struct {
	ID            int64          `json:"id" db:"id"`
	InvoiceNumber string         `json:"invoice_number" db:"invoice_number"`
	JobID         sql.NullInt64  `json:"job_id,omitempty" db:"job_id"`
	CustomerID    sql.NullInt64  `json:"customer_id,omitempty" db:"customer_id"`
	IssueDate     time.Time      `json:"issue_date" db:"issue_date"`
	DueDate       time.Time      `json:"due_date" db:"due_date"`
	Amount        int64          `json:"amount" db:"amount"`
	TaxAmount     int64          `json:"tax_amount" db:"tax_amount"`
	TotalAmount   int64          `json:"total_amount" db:"total_amount"`
	PaymentStatus PaymentStatus  `json:"payment_status" db:"payment_status"`
	PaymentDate   sql.NullTime   `json:"payment_date,omitempty" db:"payment_date"`
	PaymentMethod sql.NullString `json:"payment_method,omitempty" db:"payment_method"`
	Notes         sql.NullString `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InvoiceWithDetails joins the invoice with customer and job references for
// list views and export.
type InvoiceWithDetails struct {
	Invoice
	CustomerName string `json:"customer_name,omitempty"`
	JobReference string `json:"job_reference,omitempty"`
}
