// internal/repository/postgres/booking_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithServices inserts the booking and its service rows in one
// transaction. Prices are snapshotted from the services table inside the
// same transaction and total_amount is the sum of the snapshots, so the
// invariant total_amount == SUM(price_at_booking * quantity) holds from the
// first write.
func (r *BookingRepository) CreateWithServices(ctx context.Context, b *booking.Booking, selections []booking.ServiceSelection) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lines, total, err := snapshotServicePrices(ctx, tx, selections)
	if err != nil {
		return err
	}
	b.TotalAmount = total

	query := `
		INSERT INTO bookings (booking_reference, customer_id, booking_date, time_slot, location, notes, status, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(
		ctx, query,
		b.BookingReference, b.CustomerID, b.Date, b.TimeSlot, b.Location, b.Notes, b.Status, b.TotalAmount,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	for _, line := range lines {
		if _, err := tx.Exec(ctx,
			`INSERT INTO booking_services (booking_id, service_id, quantity, price_at_booking) VALUES ($1, $2, $3, $4)`,
			b.ID, line.ServiceID, line.Quantity, line.PriceAtBooking,
		); err != nil {
			return fmt.Errorf("failed to attach service %d: %w", line.ServiceID, err)
		}
	}

	return tx.Commit(ctx)
}

// snapshotServicePrices resolves the current price of every selected active
// service in a single batched lookup and returns the service lines plus the
// total.
func snapshotServicePrices(ctx context.Context, tx pgx.Tx, selections []booking.ServiceSelection) ([]booking.ServiceLine, int64, error) {
	ids := make([]int64, 0, len(selections))
	qty := make(map[int64]int, len(selections))
	for _, sel := range selections {
		q := sel.Quantity
		if q < 1 {
			q = 1
		}
		if _, dup := qty[sel.ServiceID]; dup {
			return nil, 0, fmt.Errorf("%w: service %d selected twice", xerrors.ErrInvalidInput, sel.ServiceID)
		}
		qty[sel.ServiceID] = q
		ids = append(ids, sel.ServiceID)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, price FROM services WHERE id = ANY($1) AND active = TRUE`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to look up service prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[int64]int64, len(ids))
	for rows.Next() {
		var id, price int64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, 0, fmt.Errorf("failed to scan service price: %w", err)
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var lines []booking.ServiceLine
	var total int64
	for _, id := range ids {
		price, ok := prices[id]
		if !ok {
			return nil, 0, fmt.Errorf("%w: service %d not found or inactive", xerrors.ErrInvalidInput, id)
		}
		q := qty[id]
		lines = append(lines, booking.ServiceLine{
			ServiceID:      id,
			Quantity:       q,
			PriceAtBooking: price,
		})
		total += price * int64(q)
	}

	return lines, total, nil
}

// FindByID retrieves a booking by ID
func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*booking.Booking, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByReference retrieves a booking by its human-readable reference
func (r *BookingRepository) FindByReference(ctx context.Context, ref string) (*booking.Booking, error) {
	return r.findOne(ctx, "booking_reference = $1", ref)
}

func (r *BookingRepository) findOne(ctx context.Context, cond string, arg interface{}) (*booking.Booking, error) {
	query := fmt.Sprintf(`
		SELECT id, booking_reference, customer_id, booking_date, time_slot, location,
		       notes, status, total_amount, created_at, updated_at
		FROM bookings
		WHERE %s
	`, cond)

	var b booking.Booking
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.BookingReference, &b.CustomerID, &b.Date, &b.TimeSlot, &b.Location,
		&b.Notes, &b.Status, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &b, nil
}

// ListServices returns the booking's service lines with service names.
func (r *BookingRepository) ListServices(ctx context.Context, bookingID int64) ([]booking.ServiceLine, error) {
	query := `
		SELECT bs.booking_id, bs.service_id, s.name, bs.quantity, bs.price_at_booking
		FROM booking_services bs
		JOIN services s ON s.id = bs.service_id
		WHERE bs.booking_id = $1
		ORDER BY s.name
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking services: %w", err)
	}
	defer rows.Close()

	var out []booking.ServiceLine
	for rows.Next() {
		var line booking.ServiceLine
		if err := rows.Scan(&line.BookingID, &line.ServiceID, &line.ServiceName, &line.Quantity, &line.PriceAtBooking); err != nil {
			return nil, fmt.Errorf("failed to scan service line: %w", err)
		}
		out = append(out, line)
	}

	return out, rows.Err()
}

// List retrieves bookings joined with customer details.
func (r *BookingRepository) List(ctx context.Context, filters *booking.BookingListFilters) ([]booking.BookingWithDetails, int64, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(b.booking_reference ILIKE $%d OR c.full_name ILIKE $%d OR c.phone ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}
	if filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("b.booking_date >= $%d", argPos))
		args = append(args, filters.DateFrom)
		argPos++
	}
	if filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("b.booking_date <= $%d", argPos))
		args = append(args, filters.DateTo)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM bookings b
		LEFT JOIN customers c ON c.id = b.customer_id
		%s
	`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.booking_reference, b.customer_id, b.booking_date, b.time_slot,
		       b.location, b.notes, b.status, b.total_amount, b.created_at, b.updated_at,
		       COALESCE(c.full_name, ''), COALESCE(c.phone, '')
		FROM bookings b
		LEFT JOIN customers c ON c.id = b.customer_id
		%s
		ORDER BY b.booking_date DESC, b.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)

	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []booking.BookingWithDetails
	for rows.Next() {
		var b booking.BookingWithDetails
		if err := rows.Scan(
			&b.ID, &b.BookingReference, &b.CustomerID, &b.Date, &b.TimeSlot,
			&b.Location, &b.Notes, &b.Status, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt,
			&b.CustomerName, &b.CustomerPhone,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Service lines are loaded per page row; the page is capped at 100.
	for i := range out {
		lines, err := r.ListServices(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].Services = lines
	}

	return out, total, nil
}

// ListUncoveredByJobs returns bookings in the given statuses that no job row
// references yet, joined with customer details and service lines.
func (r *BookingRepository) ListUncoveredByJobs(ctx context.Context, statuses []status.Status) ([]booking.BookingWithDetails, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	query := `
		SELECT b.id, b.booking_reference, b.customer_id, b.booking_date, b.time_slot,
		       b.location, b.notes, b.status, b.total_amount, b.created_at, b.updated_at,
		       COALESCE(c.full_name, ''), COALESCE(c.phone, '')
		FROM bookings b
		LEFT JOIN customers c ON c.id = b.customer_id
		WHERE b.status = ANY($1)
		  AND NOT EXISTS (SELECT 1 FROM jobs j WHERE j.booking_id = b.id)
		ORDER BY b.booking_date DESC, b.id DESC
	`

	rows, err := r.db.Query(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncovered bookings: %w", err)
	}
	defer rows.Close()

	var out []booking.BookingWithDetails
	for rows.Next() {
		var b booking.BookingWithDetails
		if err := rows.Scan(
			&b.ID, &b.BookingReference, &b.CustomerID, &b.Date, &b.TimeSlot,
			&b.Location, &b.Notes, &b.Status, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt,
			&b.CustomerName, &b.CustomerPhone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		lines, err := r.ListServices(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Services = lines
	}

	return out, nil
}

// UpdateScalars updates the booking row's scalar fields.
func (r *BookingRepository) UpdateScalars(ctx context.Context, id int64, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET customer_id = $1, booking_date = $2, time_slot = $3, location = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query, b.CustomerID, b.Date, b.TimeSlot, b.Location, b.Notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// ReplaceServices swaps the booking's whole service selection and recomputes
// total_amount from fresh price snapshots, all inside one transaction so a
// partial replace is never observable. Returns the new total.
func (r *BookingRepository) ReplaceServices(ctx context.Context, bookingID int64, selections []booking.ServiceSelection) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lines, total, err := snapshotServicePrices(ctx, tx, selections)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM booking_services WHERE booking_id = $1`, bookingID); err != nil {
		return 0, fmt.Errorf("failed to clear booking services: %w", err)
	}

	for _, line := range lines {
		if _, err := tx.Exec(ctx,
			`INSERT INTO booking_services (booking_id, service_id, quantity, price_at_booking) VALUES ($1, $2, $3, $4)`,
			bookingID, line.ServiceID, line.Quantity, line.PriceAtBooking,
		); err != nil {
			return 0, fmt.Errorf("failed to attach service %d: %w", line.ServiceID, err)
		}
	}

	result, err := tx.Exec(ctx,
		`UPDATE bookings SET total_amount = $1, updated_at = $2 WHERE id = $3`,
		total, time.Now(), bookingID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update booking total: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, xerrors.ErrNotFound
	}

	return total, tx.Commit(ctx)
}

// UpdateStatus updates the booking's status column.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, s status.Status) error {
	result, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
		s, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// DeleteCascade removes the booking, its service rows, and any job
// materialized from it (including the job's service rows) in one
// transaction. Invoices issued from the job survive with job_id nulled
// out, so they are detached before the job row goes.
func (r *BookingRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE invoices SET job_id = NULL WHERE job_id IN (SELECT id FROM jobs WHERE booking_id = $1)`, id,
	); err != nil {
		return fmt.Errorf("failed to detach invoices: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM job_services WHERE job_id IN (SELECT id FROM jobs WHERE booking_id = $1)`, id,
	); err != nil {
		return fmt.Errorf("failed to delete job services: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE booking_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete jobs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM booking_services WHERE booking_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete booking services: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return tx.Commit(ctx)
}

// CountBetween counts bookings created in [from, to).
func (r *BookingRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE created_at >= $1 AND created_at < $2`,
		from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return n, nil
}
