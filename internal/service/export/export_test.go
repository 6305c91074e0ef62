package export

import (
	"context"
	"testing"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/customer"
	"mobiwash-service/internal/domain/dashboard"
	"mobiwash-service/internal/domain/invoice"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/status"

	"go.uber.org/zap"
)

type fakeBookingLister struct{ bookings []booking.BookingWithDetails }

func (f fakeBookingLister) ListBookings(ctx context.Context, filters *booking.BookingListFilters) (*booking.BookingListResponse, error) {
	return &booking.BookingListResponse{
		Bookings:   f.bookings,
		Total:      int64(len(f.bookings)),
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: 1,
	}, nil
}

type fakeWorkItemLister struct{ items []job.WorkItem }

func (f fakeWorkItemLister) ListWorkItems(ctx context.Context, filters *job.WorkItemListFilters) ([]job.WorkItem, error) {
	return f.items, nil
}

type fakeAccounting struct{ summary dashboard.AccountingSummary }

func (f fakeAccounting) Accounting(ctx context.Context, months int) (*dashboard.AccountingSummary, error) {
	return &f.summary, nil
}

type fakeCustomerLister struct{}

func (fakeCustomerLister) ListCustomers(ctx context.Context, filters *customer.CustomerListFilters) (*customer.CustomerListResponse, error) {
	return &customer.CustomerListResponse{TotalPages: 1, Page: filters.Page}, nil
}

type fakeInvoiceLister struct{}

func (fakeInvoiceLister) ListInvoices(ctx context.Context, filters *invoice.InvoiceListFilters) (*invoice.InvoiceListResponse, error) {
	return &invoice.InvoiceListResponse{TotalPages: 1, Page: filters.Page}, nil
}

func TestExportBookingsWorkbook(t *testing.T) {
	bookings := fakeBookingLister{bookings: []booking.BookingWithDetails{
		{
			Booking: booking.Booking{
				BookingReference: "BK-20260830-ABCD",
				Date:             time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
				TimeSlot:         "morning",
				Location:         "54 Riverside Dr",
				Status:           status.StatusScheduled,
				TotalAmount:      12550,
			},
			CustomerName:  "Alex Mwangi",
			CustomerPhone: "+254700111222",
			Services: []booking.ServiceLine{
				{ServiceName: "Exterior Wash"},
				{ServiceName: "Interior Detail"},
			},
		},
	}}

	svc := NewExportService(bookings, fakeCustomerLister{}, fakeInvoiceLister{}, fakeWorkItemLister{}, fakeAccounting{}, zap.NewNop())

	f, err := svc.ExportBookings(context.Background(), &booking.BookingListFilters{})
	if err != nil {
		t.Fatalf("ExportBookings: %v", err)
	}

	if got, _ := f.GetCellValue("Bookings", "A1"); got != "Reference" {
		t.Errorf("header A1 = %q, want Reference", got)
	}
	if got, _ := f.GetCellValue("Bookings", "A2"); got != "BK-20260830-ABCD" {
		t.Errorf("A2 = %q", got)
	}
	if got, _ := f.GetCellValue("Bookings", "G2"); got != "Exterior Wash, Interior Detail" {
		t.Errorf("services cell = %q", got)
	}
	// 12550 minor units exported as 125.5 major units.
	if got, _ := f.GetCellValue("Bookings", "I2"); got != "125.5" {
		t.Errorf("total cell = %q, want 125.5", got)
	}
}

func TestExportWorkItemsIncludesVirtualRows(t *testing.T) {
	items := fakeWorkItemLister{items: []job.WorkItem{
		{
			Source:       job.SourceJob,
			JobID:        1,
			Reference:    "JOB-20260830-XY12",
			Date:         time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
			Status:       status.StatusInProgress,
			TotalAmount:  5000,
			ServiceNames: []string{"Exterior Wash"},
		},
		{
			Source:           job.SourceBooking,
			BookingID:        7,
			Reference:        "BK-20260830-QQ77",
			BookingReference: "BK-20260830-QQ77",
			Date:             time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			Status:           status.StatusCompleted,
			TotalAmount:      8000,
		},
	}}

	svc := NewExportService(fakeBookingLister{}, fakeCustomerLister{}, fakeInvoiceLister{}, items, fakeAccounting{}, zap.NewNop())

	f, err := svc.ExportWorkItems(context.Background(), &job.WorkItemListFilters{})
	if err != nil {
		t.Fatalf("ExportWorkItems: %v", err)
	}

	if got, _ := f.GetCellValue("Jobs", "A2"); got != "JOB-20260830-XY12" {
		t.Errorf("row 2 reference = %q", got)
	}
	if got, _ := f.GetCellValue("Jobs", "A3"); got != "BK-20260830-QQ77" {
		t.Errorf("row 3 reference = %q", got)
	}
	if got, _ := f.GetCellValue("Jobs", "F3"); got != "completed" {
		t.Errorf("row 3 status = %q", got)
	}
}

func TestExportAccountingSheets(t *testing.T) {
	acct := fakeAccounting{summary: dashboard.AccountingSummary{
		TotalInvoiced: 175000,
		TotalPaid:     150000,
		TotalPending:  20000,
		TotalOverdue:  5000,
		ByMonth:       []dashboard.MonthRevenue{{Year: 2026, Month: 8, Invoiced: 175000, Paid: 150000}},
	}}

	svc := NewExportService(fakeBookingLister{}, fakeCustomerLister{}, fakeInvoiceLister{}, fakeWorkItemLister{}, acct, zap.NewNop())

	f, err := svc.ExportAccounting(context.Background(), 12)
	if err != nil {
		t.Fatalf("ExportAccounting: %v", err)
	}

	if got, _ := f.GetCellValue("Summary", "A2"); got != "Total Invoiced" {
		t.Errorf("summary A2 = %q", got)
	}
	if got, _ := f.GetCellValue("Summary", "B2"); got != "1750" {
		t.Errorf("summary B2 = %q, want 1750", got)
	}
	if got, _ := f.GetCellValue("By Month", "B2"); got != "August" {
		t.Errorf("month cell = %q, want August", got)
	}
	if got, _ := f.GetCellValue("By Month", "D2"); got != "1500" {
		t.Errorf("paid cell = %q, want 1500", got)
	}
}
