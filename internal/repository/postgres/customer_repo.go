// internal/repository/postgres/customer_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/customer"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (full_name, phone, email, location, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.FullName, c.Phone, c.Email, c.Location, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// FindByID retrieves a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `
		SELECT id, full_name, phone, email, location, notes, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Location, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return &c, nil
}

// FindByPhone retrieves a customer by phone number
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	query := `
		SELECT id, full_name, phone, email, location, notes, created_at, updated_at
		FROM customers
		WHERE phone = $1
		ORDER BY id
		LIMIT 1
	`

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, phone).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Location, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}

	return &c, nil
}

// List retrieves customers with per-customer booking aggregates.
func (r *CustomerRepository) List(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.CustomerWithStats, int64, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(c.full_name ILIKE $%d OR c.phone ILIKE $%d OR c.email ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM customers c " + where
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.full_name, c.phone, c.email, c.location, c.notes,
		       c.created_at, c.updated_at,
		       COUNT(b.id) AS booking_count,
		       COALESCE(SUM(b.total_amount), 0) AS total_spent,
		       MAX(b.created_at) AS last_booking_at
		FROM customers c
		LEFT JOIN bookings b ON b.customer_id = c.id
		%s
		GROUP BY c.id
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var out []customer.CustomerWithStats
	for rows.Next() {
		var c customer.CustomerWithStats
		if err := rows.Scan(
			&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Location, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
			&c.BookingCount, &c.TotalSpent, &c.LastBookingAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}

	return out, total, rows.Err()
}

// Stats aggregates a single customer's booking history.
func (r *CustomerRepository) Stats(ctx context.Context, id int64) (*customer.CustomerStats, error) {
	query := `
		SELECT COUNT(b.id), COALESCE(SUM(b.total_amount), 0), MAX(b.created_at)
		FROM bookings b
		WHERE b.customer_id = $1
	`

	s := customer.CustomerStats{CustomerID: id}
	err := r.db.QueryRow(ctx, query, id).Scan(&s.BookingCount, &s.TotalSpent, &s.LastBookingAt)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate customer stats: %w", err)
	}

	return &s, nil
}

// Update updates a customer
func (r *CustomerRepository) Update(ctx context.Context, id int64, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET full_name = $1, phone = $2, email = $3, location = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(
		ctx, query,
		c.FullName, c.Phone, c.Email, c.Location, c.Notes, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// HasBookings reports whether any booking references the customer.
func (r *CustomerRepository) HasBookings(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE customer_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer bookings: %w", err)
	}
	return exists, nil
}

// Delete removes a customer. Callers must check HasBookings first; the
// foreign key also rejects deletes with dangling bookings.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Count returns the total number of customers.
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}
