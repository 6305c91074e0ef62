package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests need a real database because the behavior under test is the
// statement order inside the delete transactions. Run them against a
// migrated database with:
//
//	TEST_DATABASE_URL=postgres://... go test ./internal/repository/postgres
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func uniqueRef(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func insertInvoice(t *testing.T, pool *pgxpool.Pool, jobID int64) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO invoices (invoice_number, job_id, issue_date, due_date, amount, tax_amount, total_amount)
		VALUES ($1, $2, CURRENT_DATE, CURRENT_DATE + 14, 5000, 800, 5800)
		RETURNING id
	`, uniqueRef("INV"), jobID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert invoice: %v", err)
	}
	return id
}

func invoiceJobID(t *testing.T, pool *pgxpool.Pool, invoiceID int64) (jobID int64, valid bool) {
	t.Helper()
	var v *int64
	if err := pool.QueryRow(context.Background(),
		`SELECT job_id FROM invoices WHERE id = $1`, invoiceID).Scan(&v); err != nil {
		t.Fatalf("failed to read invoice: %v", err)
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

func TestDeleteCascadeDetachesInvoice(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	var bookingID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO bookings (booking_reference, booking_date, time_slot, location, status, total_amount)
		VALUES ($1, CURRENT_DATE, 'morning', '12 Main St', $2, 5000)
		RETURNING id
	`, uniqueRef("BK"), status.StatusCompleted).Scan(&bookingID)
	if err != nil {
		t.Fatalf("failed to insert booking: %v", err)
	}

	var jobID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO jobs (job_reference, booking_id, job_date, status)
		VALUES ($1, $2, CURRENT_DATE, $3)
		RETURNING id
	`, uniqueRef("JOB"), bookingID, status.StatusCompleted).Scan(&jobID)
	if err != nil {
		t.Fatalf("failed to insert job: %v", err)
	}

	invoiceID := insertInvoice(t, pool, jobID)

	if err := NewBookingRepository(pool).DeleteCascade(ctx, bookingID); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}

	if _, valid := invoiceJobID(t, pool, invoiceID); valid {
		t.Error("invoice still references the deleted job")
	}
	if _, err := NewJobRepository(pool).FindByID(ctx, jobID); !errors.Is(err, xerrors.ErrNotFound) {
		t.Errorf("job should be gone, got %v", err)
	}
}

func TestJobDeleteDetachesInvoice(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	var jobID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO jobs (job_reference, job_date, status)
		VALUES ($1, CURRENT_DATE, $2)
		RETURNING id
	`, uniqueRef("JOB"), status.StatusCompleted).Scan(&jobID)
	if err != nil {
		t.Fatalf("failed to insert job: %v", err)
	}

	invoiceID := insertInvoice(t, pool, jobID)

	if err := NewJobRepository(pool).Delete(ctx, jobID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, valid := invoiceJobID(t, pool, invoiceID); valid {
		t.Error("invoice still references the deleted job")
	}
}
