// internal/service/export/export.go
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/customer"
	"mobiwash-service/internal/domain/dashboard"
	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/domain/job"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type BookingLister interface {
	ListBookings(ctx context.Context, filters *booking.BookingListFilters) (*booking.BookingListResponse, error)
}

type CustomerLister interface {
	ListCustomers(ctx context.Context, filters *customer.CustomerListFilters) (*customer.CustomerListResponse, error)
}

type InvoiceLister interface {
	ListInvoices(ctx context.Context, filters *invoice.InvoiceListFilters) (*invoice.InvoiceListResponse, error)
}

type WorkItemLister interface {
	ListWorkItems(ctx context.Context, filters *job.WorkItemListFilters) ([]job.WorkItem, error)
}

type AccountingSource interface {
	Accounting(ctx context.Context, months int) (*dashboard.AccountingSummary, error)
}

// ExportService renders admin datasets as xlsx workbooks. Amounts are
// divided into major units here only; everything upstream stays integral.
type ExportService struct {
	bookings   BookingLister
	customers  CustomerLister
	invoices   InvoiceLister
	workItems  WorkItemLister
	accounting AccountingSource
	logger     *zap.Logger
}

func NewExportService(bookings BookingLister, customers CustomerLister, invoices InvoiceLister, workItems WorkItemLister, accounting AccountingSource, logger *zap.Logger) *ExportService {
	return &ExportService{
		bookings:   bookings,
		customers:  customers,
		invoices:   invoices,
		workItems:  workItems,
		accounting: accounting,
		logger:     logger,
	}
}

const exportPageSize = 100

// ExportBookings writes all bookings matching the filters to a workbook.
func (s *ExportService) ExportBookings(ctx context.Context, filters *booking.BookingListFilters) (*excelize.File, error) {
	f, sheet, err := newWorkbook("Bookings", []string{
		"Reference", "Customer", "Phone", "Date", "Time Slot", "Location", "Services", "Status", "Total",
	})
	if err != nil {
		return nil, err
	}

	row := 2
	filters.Page = 1
	filters.PageSize = exportPageSize
	for {
		page, err := s.bookings.ListBookings(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings for export: %w", err)
		}

		for _, b := range page.Bookings {
			writeRow(f, sheet, row, []interface{}{
				b.BookingReference,
				b.CustomerName,
				b.CustomerPhone,
				b.Date.Format("2006-01-02"),
				b.TimeSlot,
				b.Location,
				serviceNames(b.Services),
				string(b.Status),
				money(b.TotalAmount),
			})
			row++
		}

		if filters.Page >= page.TotalPages {
			break
		}
		filters.Page++
	}

	s.logger.Info("bookings exported", zap.Int("rows", row-2))
	return f, nil
}

// ExportCustomers writes the customer list with booking aggregates.
func (s *ExportService) ExportCustomers(ctx context.Context, filters *customer.CustomerListFilters) (*excelize.File, error) {
	f, sheet, err := newWorkbook("Customers", []string{
		"Name", "Phone", "Email", "Location", "Bookings", "Total Spent", "Last Booking",
	})
	if err != nil {
		return nil, err
	}

	row := 2
	filters.Page = 1
	filters.PageSize = exportPageSize
	for {
		page, err := s.customers.ListCustomers(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to load customers for export: %w", err)
		}

		for _, c := range page.Customers {
			lastBooking := ""
			if c.LastBookingAt.Valid {
				lastBooking = c.LastBookingAt.Time.Format("2006-01-02")
			}
			writeRow(f, sheet, row, []interface{}{
				c.FullName,
				c.Phone,
				c.Email.String,
				c.Location.String,
				c.BookingCount,
				money(c.TotalSpent),
				lastBooking,
			})
			row++
		}

		if filters.Page >= page.TotalPages {
			break
		}
		filters.Page++
	}

	s.logger.Info("customers exported", zap.Int("rows", row-2))
	return f, nil
}

// ExportInvoices writes invoices with payment state.
func (s *ExportService) ExportInvoices(ctx context.Context, filters *invoice.InvoiceListFilters) (*excelize.File, error) {
	f, sheet, err := newWorkbook("Invoices", []string{
		"Invoice #", "Customer", "Job", "Issued", "Due", "Amount", "Tax", "Total", "Status", "Paid On", "Method",
	})
	if err != nil {
		return nil, err
	}

	row := 2
	filters.Page = 1
	filters.PageSize = exportPageSize
	for {
		page, err := s.invoices.ListInvoices(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to load invoices for export: %w", err)
		}

		for _, inv := range page.Invoices {
			paidOn := ""
			if inv.PaymentDate.Valid {
				paidOn = inv.PaymentDate.Time.Format("2006-01-02")
			}
			writeRow(f, sheet, row, []interface{}{
				inv.InvoiceNumber,
				inv.CustomerName,
				inv.JobReference,
				inv.IssueDate.Format("2006-01-02"),
				inv.DueDate.Format("2006-01-02"),
				money(inv.Amount),
				money(inv.TaxAmount),
				money(inv.TotalAmount),
				string(inv.PaymentStatus),
				paidOn,
				inv.PaymentMethod.String,
			})
			row++
		}

		if filters.Page >= page.TotalPages {
			break
		}
		filters.Page++
	}

	s.logger.Info("invoices exported", zap.Int("rows", row-2))
	return f, nil
}

// ExportWorkItems writes the unified work list, virtual items included.
func (s *ExportService) ExportWorkItems(ctx context.Context, filters *job.WorkItemListFilters) (*excelize.File, error) {
	f, sheet, err := newWorkbook("Jobs", []string{
		"Reference", "Booking", "Customer", "Technician", "Date", "Status", "Services", "Total",
	})
	if err != nil {
		return nil, err
	}

	items, err := s.workItems.ListWorkItems(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load work items for export: %w", err)
	}

	for i, item := range items {
		writeRow(f, sheet, i+2, []interface{}{
			item.Reference,
			item.BookingReference,
			item.CustomerName,
			item.TechnicianName,
			item.Date.Format("2006-01-02"),
			string(item.Status),
			joinNames(item.ServiceNames),
			money(item.TotalAmount),
		})
	}

	s.logger.Info("work items exported", zap.Int("rows", len(items)))
	return f, nil
}

// ExportAccounting writes the accounting summary plus the per-month sheet.
func (s *ExportService) ExportAccounting(ctx context.Context, months int) (*excelize.File, error) {
	summary, err := s.accounting.Accounting(ctx, months)
	if err != nil {
		return nil, err
	}

	f, sheet, err := newWorkbook("Summary", []string{"Metric", "Amount"})
	if err != nil {
		return nil, err
	}

	rows := []struct {
		name   string
		amount int64
	}{
		{"Total Invoiced", summary.TotalInvoiced},
		{"Total Paid", summary.TotalPaid},
		{"Total Pending", summary.TotalPending},
		{"Total Overdue", summary.TotalOverdue},
	}
	for i, r := range rows {
		writeRow(f, sheet, i+2, []interface{}{r.name, money(r.amount)})
	}

	monthSheet := "By Month"
	if _, err := f.NewSheet(monthSheet); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	writeRow(f, monthSheet, 1, []interface{}{"Year", "Month", "Invoiced", "Paid"})
	for i, m := range summary.ByMonth {
		writeRow(f, monthSheet, i+2, []interface{}{
			m.Year,
			time.Month(m.Month).String(),
			money(m.Invoiced),
			money(m.Paid),
		})
	}

	return f, nil
}

// --- Workbook helpers ---

func newWorkbook(sheet string, headers []string) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}

	endCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", endCol, 18)

	return f, sheet, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

// money converts minor units to a major-unit float for display.
func money(amount int64) float64 {
	return float64(amount) / 100
}

func serviceNames(lines []booking.ServiceLine) string {
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.ServiceName)
	}
	return joinNames(names)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
