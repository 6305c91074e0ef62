package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/customer"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeBookingRepo struct {
	bookings map[int64]*booking.Booking
	lines    map[int64][]booking.ServiceLine
	prices   map[int64]int64 // service id -> price
	nextID   int64
	deleted  []int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[int64]*booking.Booking),
		lines:    make(map[int64][]booking.ServiceLine),
		prices:   map[int64]int64{1: 2500, 2: 4000, 3: 10000},
	}
}

func (f *fakeBookingRepo) total(selections []booking.ServiceSelection) (int64, []booking.ServiceLine, error) {
	var total int64
	var lines []booking.ServiceLine
	for _, sel := range selections {
		price, ok := f.prices[sel.ServiceID]
		if !ok {
			return 0, nil, xerrors.ErrNotFound
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		total += price * int64(qty)
		lines = append(lines, booking.ServiceLine{ServiceID: sel.ServiceID, Quantity: qty, PriceAtBooking: price})
	}
	return total, lines, nil
}

func (f *fakeBookingRepo) CreateWithServices(ctx context.Context, b *booking.Booking, selections []booking.ServiceSelection) error {
	total, lines, err := f.total(selections)
	if err != nil {
		return err
	}
	f.nextID++
	b.ID = f.nextID
	b.TotalAmount = total
	f.bookings[b.ID] = b
	f.lines[b.ID] = lines
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id int64) (*booking.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeBookingRepo) FindByReference(ctx context.Context, ref string) (*booking.Booking, error) {
	for _, b := range f.bookings {
		if b.BookingReference == ref {
			return b, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeBookingRepo) ListServices(ctx context.Context, bookingID int64) ([]booking.ServiceLine, error) {
	return f.lines[bookingID], nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filters *booking.BookingListFilters) ([]booking.BookingWithDetails, int64, error) {
	var out []booking.BookingWithDetails
	for _, b := range f.bookings {
		if filters.Status != "" && string(b.Status) != filters.Status {
			continue
		}
		out = append(out, booking.BookingWithDetails{Booking: *b, Services: f.lines[b.ID]})
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) UpdateScalars(ctx context.Context, id int64, b *booking.Booking) error {
	if _, ok := f.bookings[id]; !ok {
		return xerrors.ErrNotFound
	}
	f.bookings[id] = b
	return nil
}

func (f *fakeBookingRepo) ReplaceServices(ctx context.Context, bookingID int64, selections []booking.ServiceSelection) (int64, error) {
	total, lines, err := f.total(selections)
	if err != nil {
		return 0, err
	}
	f.lines[bookingID] = lines
	f.bookings[bookingID].TotalAmount = total
	return total, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, s status.Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	b.Status = s
	return nil
}

func (f *fakeBookingRepo) DeleteCascade(ctx context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.bookings, id)
	delete(f.lines, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCustomers struct {
	customers map[int64]*customer.Customer
	byPhone   map[string]*customer.Customer
	nextID    int64
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{
		customers: make(map[int64]*customer.Customer),
		byPhone:   make(map[string]*customer.Customer),
	}
}

func (f *fakeCustomers) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeCustomers) GetOrCreateByPhone(ctx context.Context, name, phone string) (*customer.Customer, error) {
	if c, ok := f.byPhone[phone]; ok {
		return c, nil
	}
	f.nextID++
	c := &customer.Customer{ID: f.nextID, FullName: name, Phone: phone}
	f.customers[c.ID] = c
	f.byPhone[phone] = c
	return c, nil
}

type fakeJobMirror struct {
	jobs      map[int64]*job.Job // keyed by booking id
	nextID    int64
	ensured   []int64
	setStatus map[int64]status.Status // job id -> last status set
}

func newFakeJobMirror() *fakeJobMirror {
	return &fakeJobMirror{
		jobs:      make(map[int64]*job.Job),
		setStatus: make(map[int64]status.Status),
	}
}

func (f *fakeJobMirror) EnsureForBooking(ctx context.Context, bookingID int64) (*job.Job, bool, error) {
	f.ensured = append(f.ensured, bookingID)
	if j, ok := f.jobs[bookingID]; ok {
		return j, false, nil
	}
	f.nextID++
	j := &job.Job{
		ID:           f.nextID,
		JobReference: "JOB-TEST",
		BookingID:    sql.NullInt64{Int64: bookingID, Valid: true},
		Status:       status.StatusScheduled,
	}
	f.jobs[bookingID] = j
	return j, true, nil
}

func (f *fakeJobMirror) FindByBookingID(ctx context.Context, bookingID int64) (*job.Job, error) {
	if j, ok := f.jobs[bookingID]; ok {
		return j, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeJobMirror) SetStatus(ctx context.Context, jobID int64, s status.Status) error {
	f.setStatus[jobID] = s
	for _, j := range f.jobs {
		if j.ID == jobID {
			j.Status = s
		}
	}
	return nil
}

func newTestService() (*BookingService, *fakeBookingRepo, *fakeCustomers, *fakeJobMirror) {
	repo := newFakeBookingRepo()
	customers := newFakeCustomers()
	jobs := newFakeJobMirror()
	svc := NewBookingService(repo, customers, jobs, nil, zap.NewNop())
	return svc, repo, customers, jobs
}

func createReq() *booking.CreateBookingRequest {
	return &booking.CreateBookingRequest{
		CustomerName:  "Alex Mwangi",
		CustomerPhone: "+254700111222",
		Date:          time.Now().AddDate(0, 0, 1),
		TimeSlot:      "09:00-11:00",
		Location:      "54 Riverside Dr",
		Services:      []booking.ServiceSelection{{ServiceID: 1, Quantity: 2}, {ServiceID: 2}},
	}
}

func TestCreateBookingComputesTotalAndDefaultsToDraft(t *testing.T) {
	svc, _, customers, jobs := newTestService()

	b, err := svc.CreateBooking(context.Background(), createReq())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if b.Status != status.StatusDraft {
		t.Errorf("status = %s, want draft", b.Status)
	}
	// 2 x 2500 + 1 x 4000
	if b.TotalAmount != 9000 {
		t.Errorf("total = %d, want 9000", b.TotalAmount)
	}
	if b.BookingReference == "" {
		t.Error("booking reference not generated")
	}
	if !b.CustomerID.Valid {
		t.Error("customer not resolved")
	}
	if _, ok := customers.byPhone["+254700111222"]; !ok {
		t.Error("customer not created from phone")
	}
	if len(jobs.ensured) != 0 {
		t.Error("draft booking should not materialize a job")
	}
}

func TestCreateBookingBornActiveMaterializesJob(t *testing.T) {
	svc, _, _, jobs := newTestService()

	req := createReq()
	req.Status = status.StatusInProgress
	b, err := svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if len(jobs.ensured) != 1 || jobs.ensured[0] != b.ID {
		t.Errorf("job not ensured for active booking: %v", jobs.ensured)
	}
}

func TestCreateBookingScheduledMaterializesJob(t *testing.T) {
	svc, _, _, jobs := newTestService()

	req := createReq()
	req.Status = status.StatusScheduled
	b, err := svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if len(jobs.ensured) != 1 || jobs.ensured[0] != b.ID {
		t.Fatalf("scheduled booking did not materialize a job: %v", jobs.ensured)
	}
	if j := jobs.jobs[b.ID]; j == nil || j.Status != status.StatusScheduled {
		t.Errorf("materialized job should be scheduled, got %+v", jobs.jobs[b.ID])
	}
}

func TestCreateBookingRequiresCustomer(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := createReq()
	req.CustomerPhone = ""
	_, err := svc.CreateBooking(context.Background(), req)
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateStatusValidatesTransitions(t *testing.T) {
	svc, repo, _, jobs := newTestService()

	b, err := svc.CreateBooking(context.Background(), createReq())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), b.ID, status.StatusScheduled); err != nil {
		t.Fatalf("draft -> scheduled: %v", err)
	}
	if len(jobs.ensured) != 1 {
		t.Error("entering scheduled should materialize the job")
	}

	if _, err := svc.UpdateStatus(context.Background(), b.ID, status.StatusInProgress); err != nil {
		t.Fatalf("scheduled -> in_progress: %v", err)
	}
	if j := jobs.jobs[b.ID]; j == nil || jobs.setStatus[j.ID] != status.StatusInProgress {
		t.Error("job did not follow the booking into in_progress")
	}

	// Backward move refused.
	if _, err := svc.UpdateStatus(context.Background(), b.ID, status.StatusScheduled); !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Errorf("in_progress -> scheduled: expected ErrInvalidStatus, got %v", err)
	}
	if repo.bookings[b.ID].Status != status.StatusInProgress {
		t.Errorf("booking status changed despite rejected transition: %s", repo.bookings[b.ID].Status)
	}
}

func TestUpdateStatusMirrorsToJob(t *testing.T) {
	svc, _, _, jobs := newTestService()

	req := createReq()
	req.Status = status.StatusInProgress
	b, err := svc.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), b.ID, status.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	j := jobs.jobs[b.ID]
	if j == nil {
		t.Fatal("no job materialized")
	}
	if jobs.setStatus[j.ID] != status.StatusCompleted {
		t.Errorf("job status not mirrored, got %s", jobs.setStatus[j.ID])
	}
}

func TestUpdateBookingReplacesServicesAndRecomputesTotal(t *testing.T) {
	svc, _, _, _ := newTestService()

	b, err := svc.CreateBooking(context.Background(), createReq())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	d, err := svc.UpdateBooking(context.Background(), b.ID, &booking.UpdateBookingRequest{
		Services: []booking.ServiceSelection{{ServiceID: 3}},
	})
	if err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}

	if d.TotalAmount != 10000 {
		t.Errorf("total = %d, want 10000", d.TotalAmount)
	}
	if len(d.Services) != 1 || d.Services[0].ServiceID != 3 {
		t.Errorf("services not replaced: %+v", d.Services)
	}
}

func TestDeleteBookingCascades(t *testing.T) {
	svc, repo, _, _ := newTestService()

	b, err := svc.CreateBooking(context.Background(), createReq())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if err := svc.DeleteBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != b.ID {
		t.Errorf("cascade delete not invoked: %v", repo.deleted)
	}
	if _, err := svc.GetBooking(context.Background(), b.ID); !errors.Is(err, xerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTrackBookingByReference(t *testing.T) {
	svc, _, _, _ := newTestService()

	b, err := svc.CreateBooking(context.Background(), createReq())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	d, err := svc.GetBookingByReference(context.Background(), b.BookingReference)
	if err != nil {
		t.Fatalf("GetBookingByReference: %v", err)
	}
	if d.ID != b.ID {
		t.Errorf("wrong booking returned: %d", d.ID)
	}
	if d.CustomerName != "Alex Mwangi" {
		t.Errorf("customer details missing: %q", d.CustomerName)
	}
}
