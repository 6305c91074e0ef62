// internal/repository/postgres/job_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type JobRepository struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

// CreateMissingFromBookings materializes a job for every active booking
// that has none, copying date, status and notes, and
// duplicating the booking's service lines onto the job. The UNIQUE
// constraint on jobs.booking_id plus ON CONFLICT DO NOTHING makes this a
// single atomic statement: concurrent callers cannot double-create.
func (r *JobRepository) CreateMissingFromBookings(ctx context.Context, refPrefix string) (int64, error) {
	query := `
		WITH created AS (
			INSERT INTO jobs (job_reference, booking_id, job_date, status, notes)
			SELECT $1 || lpad((floor(random() * 10000))::int::text, 4, '0'),
			       b.id, b.booking_date, b.status, b.notes
			FROM bookings b
			WHERE b.status = ANY($2)
			  AND NOT EXISTS (SELECT 1 FROM jobs j WHERE j.booking_id = b.id)
			ON CONFLICT (booking_id) DO NOTHING
			RETURNING id, booking_id
		), copied AS (
			INSERT INTO job_services (job_id, service_id, quantity, price_at_booking)
			SELECT c.id, bs.service_id, bs.quantity, bs.price_at_booking
			FROM created c
			JOIN booking_services bs ON bs.booking_id = c.booking_id
		)
		SELECT COUNT(*) FROM created
	`

	statuses := []string{string(status.StatusScheduled), string(status.StatusInProgress), string(status.StatusCompleted)}

	var created int64
	if err := r.db.QueryRow(ctx, query, refPrefix, statuses).Scan(&created); err != nil {
		return 0, fmt.Errorf("failed to create jobs from bookings: %w", err)
	}

	return created, nil
}

// EnsureForBooking materializes a job for one booking if none exists and
// returns the job either way. A draft booking's job starts as scheduled.
// technicianID, when non-nil, is set on the job whether it was just created
// or already existed.
func (r *JobRepository) EnsureForBooking(ctx context.Context, bookingID int64, jobRef string, technicianID *int64) (*job.Job, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO jobs (job_reference, booking_id, job_date, status, notes)
		SELECT $1, b.id, b.booking_date,
		       CASE WHEN b.status = 'draft' THEN 'scheduled'::work_status ELSE b.status END,
		       b.notes
		FROM bookings b
		WHERE b.id = $2
		ON CONFLICT (booking_id) DO NOTHING
		RETURNING id
	`

	var createdID int64
	created := true
	err = tx.QueryRow(ctx, insert, jobRef, bookingID).Scan(&createdID)
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to materialize job: %w", err)
	}

	if created {
		if _, err := tx.Exec(ctx, `
			INSERT INTO job_services (job_id, service_id, quantity, price_at_booking)
			SELECT $1, service_id, quantity, price_at_booking
			FROM booking_services
			WHERE booking_id = $2
		`, createdID, bookingID); err != nil {
			return nil, false, fmt.Errorf("failed to copy booking services: %w", err)
		}
	}

	if technicianID != nil {
		var tech sql.NullInt64
		if *technicianID > 0 {
			tech = sql.NullInt64{Int64: *technicianID, Valid: true}
		}
		if _, err := tx.Exec(ctx,
			`UPDATE jobs SET technician_id = $1, updated_at = NOW() WHERE booking_id = $2`,
			tech, bookingID,
		); err != nil {
			return nil, false, fmt.Errorf("failed to assign technician: %w", err)
		}
	}

	j, err := scanJob(tx.QueryRow(ctx, jobSelect+` WHERE booking_id = $1`, bookingID))
	if err != nil {
		// The booking may not exist at all; the insert above silently
		// selects zero rows in that case.
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, false, xerrors.ErrNotFound
		}
		return nil, false, err
	}

	return j, created, tx.Commit(ctx)
}

const jobSelect = `
	SELECT id, job_reference, booking_id, technician_id, job_date, status,
	       start_time, end_time, notes, created_at, updated_at
	FROM jobs
`

func scanJob(row pgx.Row) (*job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.JobReference, &j.BookingID, &j.TechnicianID, &j.Date, &j.Status,
		&j.StartTime, &j.EndTime, &j.Notes, &j.CreatedAt, &j.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	return &j, nil
}

// FindByID retrieves a job by ID
func (r *JobRepository) FindByID(ctx context.Context, id int64) (*job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE id = $1`, id))
}

// FindByBookingID retrieves the job materialized from a booking, if any.
func (r *JobRepository) FindByBookingID(ctx context.Context, bookingID int64) (*job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE booking_id = $1`, bookingID))
}

const jobDetailsSelect = `
	SELECT j.id, j.job_reference, j.booking_id, j.technician_id, j.job_date, j.status,
	       j.start_time, j.end_time, j.notes, j.created_at, j.updated_at,
	       COALESCE(b.booking_reference, ''), COALESCE(b.location, ''), COALESCE(b.total_amount, 0),
	       b.customer_id, COALESCE(c.full_name, ''), COALESCE(c.phone, ''),
	       COALESCE(t.full_name, ''),
	       COALESCE(array_agg(s.name ORDER BY s.name) FILTER (WHERE s.name IS NOT NULL), '{}')
	FROM jobs j
	LEFT JOIN bookings b ON b.id = j.booking_id
	LEFT JOIN customers c ON c.id = b.customer_id
	LEFT JOIN technicians t ON t.id = j.technician_id
	LEFT JOIN job_services js ON js.job_id = j.id
	LEFT JOIN services s ON s.id = js.service_id
`

const jobDetailsGroup = ` GROUP BY j.id, b.booking_reference, b.location, b.total_amount, b.customer_id, c.full_name, c.phone, t.full_name`

func scanJobDetails(row pgx.Row) (*job.JobWithDetails, error) {
	var d job.JobWithDetails
	var names pq.StringArray
	err := row.Scan(
		&d.ID, &d.JobReference, &d.BookingID, &d.TechnicianID, &d.Date, &d.Status,
		&d.StartTime, &d.EndTime, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
		&d.BookingReference, &d.Location, &d.TotalAmount,
		&d.CustomerID, &d.CustomerName, &d.CustomerPhone,
		&d.TechnicianName,
		&names,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job details: %w", err)
	}
	d.ServiceNames = names
	return &d, nil
}

// FindDetailsByID retrieves one job with its joined details.
func (r *JobRepository) FindDetailsByID(ctx context.Context, id int64) (*job.JobWithDetails, error) {
	query := jobDetailsSelect + ` WHERE j.id = $1` + jobDetailsGroup
	return scanJobDetails(r.db.QueryRow(ctx, query, id))
}

// ListWithDetails retrieves jobs joined with booking, customer, technician
// and service names.
func (r *JobRepository) ListWithDetails(ctx context.Context, filters *job.WorkItemListFilters) ([]job.JobWithDetails, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("j.status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(j.job_reference ILIKE $%d OR b.booking_reference ILIKE $%d OR c.full_name ILIKE $%d OR t.full_name ILIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := jobDetailsSelect + where + jobDetailsGroup + ` ORDER BY j.job_date DESC, j.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var out []job.JobWithDetails
	for rows.Next() {
		var d job.JobWithDetails
		var names pq.StringArray
		if err := rows.Scan(
			&d.ID, &d.JobReference, &d.BookingID, &d.TechnicianID, &d.Date, &d.Status,
			&d.StartTime, &d.EndTime, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&d.BookingReference, &d.Location, &d.TotalAmount,
			&d.CustomerID, &d.CustomerName, &d.CustomerPhone,
			&d.TechnicianName,
			&names,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job details: %w", err)
		}
		d.ServiceNames = names
		out = append(out, d)
	}

	return out, rows.Err()
}

// UpdateTechnician sets or clears the job's technician assignment.
func (r *JobRepository) UpdateTechnician(ctx context.Context, id int64, technicianID sql.NullInt64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE jobs SET technician_id = $1, updated_at = $2 WHERE id = $3`,
		technicianID, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job technician: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus updates the job's status column.
func (r *JobRepository) UpdateStatus(ctx context.Context, id int64, s status.Status) error {
	result, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`,
		s, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateTimes sets the job's start/end times and notes.
func (r *JobRepository) UpdateTimes(ctx context.Context, id int64, start, end sql.NullTime, notes sql.NullString) error {
	result, err := r.db.Exec(ctx,
		`UPDATE jobs SET start_time = $1, end_time = $2, notes = $3, updated_at = $4 WHERE id = $5`,
		start, end, notes, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a job and its service rows. An invoice issued from the
// job survives with job_id nulled out, so it must be detached before the
// job row goes.
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE invoices SET job_id = NULL WHERE job_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach invoices: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM job_services WHERE job_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete job services: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return tx.Commit(ctx)
}

// CountByStatus counts jobs in the given status.
func (r *JobRepository) CountByStatus(ctx context.Context, s status.Status) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status = $1`, s).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// CountCompletedBetween counts jobs completed (by updated_at) in [from, to).
func (r *JobRepository) CountCompletedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status = $1 AND updated_at >= $2 AND updated_at < $3`,
		status.StatusCompleted, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed jobs: %w", err)
	}
	return n, nil
}
