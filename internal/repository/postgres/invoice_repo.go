// internal/repository/postgres/invoice_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/dashboard"
	"mobiwash-service/internal/domain/invoice"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	db *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts an invoice, assigning INV-<n> from the database sequence so
// numbers stay gapless-enough and unique under concurrency.
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_number, job_id, customer_id, issue_date, due_date,
		                      amount, tax_amount, total_amount, payment_status, notes)
		VALUES ('INV-' || nextval('invoice_number_seq'), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, invoice_number, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		inv.JobID, inv.CustomerID, inv.IssueDate, inv.DueDate,
		inv.Amount, inv.TaxAmount, inv.TotalAmount, inv.PaymentStatus, inv.Notes,
	).Scan(&inv.ID, &inv.InvoiceNumber, &inv.CreatedAt, &inv.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

const invoiceSelect = `
	SELECT id, invoice_number, job_id, customer_id, issue_date, due_date,
	       amount, tax_amount, total_amount, payment_status, payment_date,
	       payment_method, notes, created_at, updated_at
	FROM invoices
`

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.JobID, &inv.CustomerID, &inv.IssueDate, &inv.DueDate,
		&inv.Amount, &inv.TaxAmount, &inv.TotalAmount, &inv.PaymentStatus, &inv.PaymentDate,
		&inv.PaymentMethod, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	return &inv, nil
}

// FindByID retrieves an invoice by ID
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return scanInvoice(r.db.QueryRow(ctx, invoiceSelect+` WHERE id = $1`, id))
}

// FindByJobID retrieves the invoice generated for a job, if any.
func (r *InvoiceRepository) FindByJobID(ctx context.Context, jobID int64) (*invoice.Invoice, error) {
	return scanInvoice(r.db.QueryRow(ctx, invoiceSelect+` WHERE job_id = $1 ORDER BY id LIMIT 1`, jobID))
}

// List retrieves invoices with customer and job references.
func (r *InvoiceRepository) List(ctx context.Context, filters *invoice.InvoiceListFilters) ([]invoice.InvoiceWithDetails, int64, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("i.payment_status = $%d", argPos))
		args = append(args, filters.PaymentStatus)
		argPos++
	}
	if filters.CustomerID > 0 {
		conditions = append(conditions, fmt.Sprintf("i.customer_id = $%d", argPos))
		args = append(args, filters.CustomerID)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(i.invoice_number ILIKE $%d OR c.full_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM invoices i
		LEFT JOIN customers c ON c.id = i.customer_id
		%s
	`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.invoice_number, i.job_id, i.customer_id, i.issue_date, i.due_date,
		       i.amount, i.tax_amount, i.total_amount, i.payment_status, i.payment_date,
		       i.payment_method, i.notes, i.created_at, i.updated_at,
		       COALESCE(c.full_name, ''), COALESCE(j.job_reference, '')
		FROM invoices i
		LEFT JOIN customers c ON c.id = i.customer_id
		LEFT JOIN jobs j ON j.id = i.job_id
		%s
		ORDER BY i.issue_date DESC, i.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var out []invoice.InvoiceWithDetails
	for rows.Next() {
		var d invoice.InvoiceWithDetails
		if err := rows.Scan(
			&d.ID, &d.InvoiceNumber, &d.JobID, &d.CustomerID, &d.IssueDate, &d.DueDate,
			&d.Amount, &d.TaxAmount, &d.TotalAmount, &d.PaymentStatus, &d.PaymentDate,
			&d.PaymentMethod, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&d.CustomerName, &d.JobReference,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		out = append(out, d)
	}

	return out, total, rows.Err()
}

// RecordPayment marks an invoice paid.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, id int64, method string, paidAt time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET payment_status = 'paid', payment_method = $1, payment_date = $2, updated_at = $3
		WHERE id = $4
	`, method, paidAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdatePaymentStatus sets the invoice's payment status directly.
func (r *InvoiceRepository) UpdatePaymentStatus(ctx context.Context, id int64, s invoice.PaymentStatus) error {
	result, err := r.db.Exec(ctx,
		`UPDATE invoices SET payment_status = $1, updated_at = $2 WHERE id = $3`,
		s, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// MarkOverdue flips pending invoices past their due date to overdue and
// returns how many changed.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET payment_status = 'overdue', updated_at = NOW()
		WHERE payment_status = 'pending' AND due_date < $1
	`, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}

	return result.RowsAffected(), nil
}

// SumByPaymentStatus totals invoice amounts per payment status.
func (r *InvoiceRepository) SumByPaymentStatus(ctx context.Context) (map[invoice.PaymentStatus]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT payment_status, COALESCE(SUM(total_amount), 0) FROM invoices GROUP BY payment_status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoices: %w", err)
	}
	defer rows.Close()

	sums := make(map[invoice.PaymentStatus]int64)
	for rows.Next() {
		var s invoice.PaymentStatus
		var total int64
		if err := rows.Scan(&s, &total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice sum: %w", err)
		}
		sums[s] = total
	}

	return sums, rows.Err()
}

// CountByPaymentStatus counts invoices in the given payment status.
func (r *InvoiceRepository) CountByPaymentStatus(ctx context.Context, s invoice.PaymentStatus) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE payment_status = $1`, s,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

// PaidRevenueBetween sums paid invoice totals with payment_date in [from, to).
func (r *InvoiceRepository) PaidRevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE payment_status = 'paid' AND payment_date >= $1 AND payment_date < $2
	`, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// MonthlyBreakdown aggregates invoiced and paid totals per issue month over
// the trailing months window.
func (r *InvoiceRepository) MonthlyBreakdown(ctx context.Context, months int) ([]dashboard.MonthRevenue, error) {
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(YEAR FROM issue_date)::int,
		       EXTRACT(MONTH FROM issue_date)::int,
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'paid'), 0)
		FROM invoices
		WHERE issue_date >= date_trunc('month', NOW()) - ($1 || ' months')::interval
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, months)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}
	defer rows.Close()

	var out []dashboard.MonthRevenue
	for rows.Next() {
		var m dashboard.MonthRevenue
		if err := rows.Scan(&m.Year, &m.Month, &m.Invoiced, &m.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
