package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/settings"
	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeInvoiceRepo struct {
	invoices map[int64]*invoice.Invoice
	nextID   int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[int64]*invoice.Invoice)}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	f.nextID++
	inv.ID = f.nextID
	inv.InvoiceNumber = fmt.Sprintf("INV-%d", 1000+f.nextID)
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, id int64) (*invoice.Invoice, error) {
	if inv, ok := f.invoices[id]; ok {
		return inv, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeInvoiceRepo) FindByJobID(ctx context.Context, jobID int64) (*invoice.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.JobID.Valid && inv.JobID.Int64 == jobID {
			return inv, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filters *invoice.InvoiceListFilters) ([]invoice.InvoiceWithDetails, int64, error) {
	var out []invoice.InvoiceWithDetails
	for _, inv := range f.invoices {
		out = append(out, invoice.InvoiceWithDetails{Invoice: *inv})
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) RecordPayment(ctx context.Context, id int64, method string, paidAt time.Time) error {
	inv, ok := f.invoices[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	inv.PaymentStatus = invoice.PaymentPaid
	inv.PaymentMethod = sql.NullString{String: method, Valid: true}
	inv.PaymentDate = sql.NullTime{Time: paidAt, Valid: true}
	return nil
}

func (f *fakeInvoiceRepo) UpdatePaymentStatus(ctx context.Context, id int64, s invoice.PaymentStatus) error {
	inv, ok := f.invoices[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	inv.PaymentStatus = s
	return nil
}

func (f *fakeInvoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, inv := range f.invoices {
		if inv.PaymentStatus == invoice.PaymentPending && inv.DueDate.Before(asOf) {
			inv.PaymentStatus = invoice.PaymentOverdue
			n++
		}
	}
	return n, nil
}

type fakeJobSource struct {
	jobs map[int64]*job.JobWithDetails
}

func (f *fakeJobSource) FindDetailsByID(ctx context.Context, id int64) (*job.JobWithDetails, error) {
	if j, ok := f.jobs[id]; ok {
		return j, nil
	}
	return nil, xerrors.ErrNotFound
}

type fakeTaxSource struct {
	rate int64
}

func (f *fakeTaxSource) TaxConfig(ctx context.Context) (*settings.TaxConfig, error) {
	return &settings.TaxConfig{RatePercent: f.rate}, nil
}

func testJob(id int64, st status.Status, total int64) *job.JobWithDetails {
	return &job.JobWithDetails{
		Job: job.Job{
			ID:           id,
			JobReference: fmt.Sprintf("JOB-%d", id),
			Status:       st,
		},
		CustomerID:  sql.NullInt64{Int64: 8, Valid: true},
		TotalAmount: total,
	}
}

func newTestService(rate int64, jobs ...*job.JobWithDetails) (*InvoiceService, *fakeInvoiceRepo) {
	repo := newFakeInvoiceRepo()
	src := &fakeJobSource{jobs: make(map[int64]*job.JobWithDetails)}
	for _, j := range jobs {
		src.jobs[j.ID] = j
	}
	svc := NewInvoiceService(repo, src, &fakeTaxSource{rate: rate}, nil, zap.NewNop())
	return svc, repo
}

func TestGenerateFromJobComputesTax(t *testing.T) {
	svc, _ := newTestService(16, testJob(1, status.StatusCompleted, 10000))

	inv, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 1})
	if err != nil {
		t.Fatalf("GenerateFromJob: %v", err)
	}

	if inv.Amount != 10000 {
		t.Errorf("amount = %d, want 10000", inv.Amount)
	}
	if inv.TaxAmount != 1600 {
		t.Errorf("tax = %d, want 1600", inv.TaxAmount)
	}
	if inv.TotalAmount != 11600 {
		t.Errorf("total = %d, want 11600", inv.TotalAmount)
	}
	if inv.PaymentStatus != invoice.PaymentPending {
		t.Errorf("payment status = %s, want pending", inv.PaymentStatus)
	}
	if !inv.CustomerID.Valid || inv.CustomerID.Int64 != 8 {
		t.Errorf("customer not carried from job: %+v", inv.CustomerID)
	}
	if inv.InvoiceNumber == "" {
		t.Error("invoice number not assigned")
	}

	// Default due window is 14 days.
	wantDue := inv.IssueDate.AddDate(0, 0, 14)
	if !inv.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", inv.DueDate, wantDue)
	}
}

func TestGenerateFromJobRequiresCompletedJob(t *testing.T) {
	svc, _ := newTestService(0, testJob(1, status.StatusInProgress, 5000))

	_, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 1})
	if !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestGenerateFromJobRejectsDoubleInvoice(t *testing.T) {
	svc, _ := newTestService(0, testJob(1, status.StatusCompleted, 5000))

	if _, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 1}); err != nil {
		t.Fatalf("first invoice: %v", err)
	}
	_, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 1})
	if !errors.Is(err, xerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRecordPaymentFinality(t *testing.T) {
	svc, _ := newTestService(0, testJob(1, status.StatusCompleted, 5000))

	inv, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 1})
	if err != nil {
		t.Fatalf("GenerateFromJob: %v", err)
	}

	paid, err := svc.RecordPayment(context.Background(), inv.ID, &invoice.RecordPaymentRequest{PaymentMethod: "mpesa"})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if paid.PaymentStatus != invoice.PaymentPaid {
		t.Errorf("status = %s, want paid", paid.PaymentStatus)
	}
	if !paid.PaymentDate.Valid {
		t.Error("payment date not set")
	}

	// Paying again is refused, as is cancelling a paid invoice.
	if _, err := svc.RecordPayment(context.Background(), inv.ID, &invoice.RecordPaymentRequest{PaymentMethod: "cash"}); !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Errorf("double payment: expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.CancelInvoice(context.Background(), inv.ID); !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Errorf("cancel paid: expected ErrInvalidStatus, got %v", err)
	}
}

func TestSweepOverdue(t *testing.T) {
	svc, repo := newTestService(0,
		testJob(1, status.StatusCompleted, 5000),
		testJob(2, status.StatusCompleted, 5000),
	)

	inv1, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 1, DueDays: 7})
	if err != nil {
		t.Fatalf("invoice 1: %v", err)
	}
	if _, err := svc.GenerateFromJob(context.Background(), &invoice.GenerateInvoiceRequest{JobID: 2, DueDays: 30}); err != nil {
		t.Fatalf("invoice 2: %v", err)
	}

	// Push the first invoice past due.
	repo.invoices[inv1.ID].DueDate = time.Now().AddDate(0, 0, -1)

	n, err := svc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept %d invoices, want 1", n)
	}
	if repo.invoices[inv1.ID].PaymentStatus != invoice.PaymentOverdue {
		t.Errorf("invoice 1 status = %s, want overdue", repo.invoices[inv1.ID].PaymentStatus)
	}

	// Sweep is idempotent.
	n, err = svc.SweepOverdue(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("second sweep: n=%d err=%v, want 0 nil", n, err)
	}
}
