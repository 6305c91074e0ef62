// internal/service/invoice/invoice.go
package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/settings"
	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type InvoiceRepo interface {
	Create(ctx context.Context, inv *invoice.Invoice) error
	FindByID(ctx context.Context, id int64) (*invoice.Invoice, error)
	FindByJobID(ctx context.Context, jobID int64) (*invoice.Invoice, error)
	List(ctx context.Context, filters *invoice.InvoiceListFilters) ([]invoice.InvoiceWithDetails, int64, error)
	RecordPayment(ctx context.Context, id int64, method string, paidAt time.Time) error
	UpdatePaymentStatus(ctx context.Context, id int64, s invoice.PaymentStatus) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type JobSource interface {
	FindDetailsByID(ctx context.Context, id int64) (*job.JobWithDetails, error)
}

type TaxSource interface {
	TaxConfig(ctx context.Context) (*settings.TaxConfig, error)
}

type EventPublisher interface {
	PublishEntityEvent(eventType, entity string, entityID int64, reference string, st string)
}

type InvoiceService struct {
	invoiceRepo InvoiceRepo
	jobs        JobSource
	tax         TaxSource
	events      EventPublisher
	logger      *zap.Logger
}

func NewInvoiceService(invoiceRepo InvoiceRepo, jobs JobSource, tax TaxSource, events EventPublisher, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		jobs:        jobs,
		tax:         tax,
		events:      events,
		logger:      logger,
	}
}

// GenerateFromJob creates an invoice for a completed job. The amount is the
// job's total; tax comes from the tax setting. A job can carry at most one
// invoice.
func (s *InvoiceService) GenerateFromJob(ctx context.Context, req *invoice.GenerateInvoiceRequest) (*invoice.Invoice, error) {
	j, err := s.jobs.FindDetailsByID(ctx, req.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve job: %w", err)
	}
	if j.Status != status.StatusCompleted {
		return nil, fmt.Errorf("%w: job %s is not completed", xerrors.ErrInvalidStatus, j.JobReference)
	}

	if existing, err := s.invoiceRepo.FindByJobID(ctx, req.JobID); err == nil {
		return nil, fmt.Errorf("%w: job already invoiced as %s", xerrors.ErrConflict, existing.InvoiceNumber)
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	cfg, err := s.tax.TaxConfig(ctx)
	if err != nil {
		return nil, err
	}

	taxAmount := j.TotalAmount * cfg.RatePercent / 100

	dueDays := req.DueDays
	if dueDays == 0 {
		dueDays = 14
	}

	now := time.Now()
	inv := &invoice.Invoice{
		JobID:         sql.NullInt64{Int64: j.ID, Valid: true},
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, dueDays),
		Amount:        j.TotalAmount,
		TaxAmount:     taxAmount,
		TotalAmount:   j.TotalAmount + taxAmount,
		PaymentStatus: invoice.PaymentPending,
		Notes:         sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}

	// Carry the customer over from the source booking when there is one.
	if j.CustomerID.Valid {
		inv.CustomerID = j.CustomerID
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		s.logger.Error("failed to create invoice", zap.Int64("job_id", req.JobID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("invoice generated",
		zap.Int64("invoice_id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int64("job_id", j.ID),
		zap.Int64("total_amount", inv.TotalAmount),
	)

	if s.events != nil {
		s.events.PublishEntityEvent("invoice:created", "invoice", inv.ID, inv.InvoiceNumber, string(inv.PaymentStatus))
	}

	return inv, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*invoice.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}

// ListInvoices lists invoices with customer and job references.
func (s *InvoiceService) ListInvoices(ctx context.Context, filters *invoice.InvoiceListFilters) (*invoice.InvoiceListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	if filters.PaymentStatus != "" && !invoice.PaymentStatus(filters.PaymentStatus).IsValid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", xerrors.ErrInvalidInput, filters.PaymentStatus)
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &invoice.InvoiceListResponse{
		Invoices:   invoices,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize)),
	}, nil
}

// RecordPayment marks an invoice paid. Paid and cancelled invoices are
// final and cannot be paid again.
func (s *InvoiceService) RecordPayment(ctx context.Context, id int64, req *invoice.RecordPaymentRequest) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.PaymentStatus == invoice.PaymentPaid || inv.PaymentStatus == invoice.PaymentCancelled {
		return nil, fmt.Errorf("%w: invoice %s is %s", xerrors.ErrInvalidStatus, inv.InvoiceNumber, inv.PaymentStatus)
	}

	paidAt := time.Now()
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}

	if err := s.invoiceRepo.RecordPayment(ctx, id, req.PaymentMethod, paidAt); err != nil {
		return nil, err
	}

	inv.PaymentStatus = invoice.PaymentPaid
	inv.PaymentMethod = sql.NullString{String: req.PaymentMethod, Valid: true}
	inv.PaymentDate = sql.NullTime{Time: paidAt, Valid: true}

	s.logger.Info("payment recorded",
		zap.Int64("invoice_id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("method", req.PaymentMethod),
	)

	if s.events != nil {
		s.events.PublishEntityEvent("invoice:updated", "invoice", inv.ID, inv.InvoiceNumber, string(inv.PaymentStatus))
	}

	return inv, nil
}

// CancelInvoice voids a pending or overdue invoice.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id int64) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.PaymentStatus == invoice.PaymentPaid || inv.PaymentStatus == invoice.PaymentCancelled {
		return nil, fmt.Errorf("%w: invoice %s is %s", xerrors.ErrInvalidStatus, inv.InvoiceNumber, inv.PaymentStatus)
	}

	if err := s.invoiceRepo.UpdatePaymentStatus(ctx, id, invoice.PaymentCancelled); err != nil {
		return nil, err
	}
	inv.PaymentStatus = invoice.PaymentCancelled

	s.logger.Info("invoice cancelled", zap.Int64("invoice_id", id))
	return inv, nil
}

// SweepOverdue flips pending invoices past their due date to overdue.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		s.logger.Error("overdue sweep failed", zap.Error(err))
		return 0, err
	}

	if n > 0 {
		s.logger.Info("invoices marked overdue", zap.Int64("count", n))
	}

	return n, nil
}
