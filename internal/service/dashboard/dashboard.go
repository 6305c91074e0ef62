// internal/service/dashboard/dashboard.go
package dashboard

import (
	"context"
	"fmt"
	"time"

	"mobiwash-service/internal/domain/dashboard"
	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/domain/status"

	"go.uber.org/zap"
)

type BookingCounter interface {
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type JobCounter interface {
	CountByStatus(ctx context.Context, s status.Status) (int64, error)
	CountCompletedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type InvoiceAggregator interface {
	CountByPaymentStatus(ctx context.Context, s invoice.PaymentStatus) (int64, error)
	SumByPaymentStatus(ctx context.Context) (map[invoice.PaymentStatus]int64, error)
	PaidRevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
	MonthlyBreakdown(ctx context.Context, months int) ([]dashboard.MonthRevenue, error)
}

type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DashboardService aggregates headline numbers for the admin landing page
// and the accounting view. All amounts stay in minor currency units.
type DashboardService struct {
	bookings  BookingCounter
	jobs      JobCounter
	invoices  InvoiceAggregator
	customers CustomerCounter
	logger    *zap.Logger
}

func NewDashboardService(bookings BookingCounter, jobs JobCounter, invoices InvoiceAggregator, customers CustomerCounter, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		bookings:  bookings,
		jobs:      jobs,
		invoices:  invoices,
		customers: customers,
		logger:    logger,
	}
}

// Summary computes the dashboard headline figures.
func (s *DashboardService) Summary(ctx context.Context) (*dashboard.Summary, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var out dashboard.Summary
	var err error

	if out.BookingsToday, err = s.bookings.CountBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return nil, fmt.Errorf("failed to count today's bookings: %w", err)
	}
	if out.BookingsMonth, err = s.bookings.CountBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, fmt.Errorf("failed to count month's bookings: %w", err)
	}
	if out.JobsInProgress, err = s.jobs.CountByStatus(ctx, status.StatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to count in-progress jobs: %w", err)
	}
	if out.JobsCompleted, err = s.jobs.CountCompletedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, fmt.Errorf("failed to count completed jobs: %w", err)
	}
	if out.PendingInvoices, err = s.invoices.CountByPaymentStatus(ctx, invoice.PaymentPending); err != nil {
		return nil, fmt.Errorf("failed to count pending invoices: %w", err)
	}
	if out.TotalCustomers, err = s.customers.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if out.RevenueToday, err = s.invoices.PaidRevenueBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return nil, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	if out.RevenueMonth, err = s.invoices.PaidRevenueBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, fmt.Errorf("failed to sum month's revenue: %w", err)
	}

	return &out, nil
}

// Accounting computes invoice totals per payment status plus the monthly
// breakdown used by the accounting page and its export.
func (s *DashboardService) Accounting(ctx context.Context, months int) (*dashboard.AccountingSummary, error) {
	if months < 1 || months > 36 {
		months = 12
	}

	sums, err := s.invoices.SumByPaymentStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoices: %w", err)
	}

	byMonth, err := s.invoices.MonthlyBreakdown(ctx, months)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}

	return &dashboard.AccountingSummary{
		TotalInvoiced: sums[invoice.PaymentPending] + sums[invoice.PaymentPaid] + sums[invoice.PaymentOverdue],
		TotalPaid:     sums[invoice.PaymentPaid],
		TotalPending:  sums[invoice.PaymentPending],
		TotalOverdue:  sums[invoice.PaymentOverdue],
		ByMonth:       byMonth,
	}, nil
}
