package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/status"
	"mobiwash-service/internal/domain/technician"
	xerrors "mobiwash-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// fakeStore backs both the job repo and the booking source so tests can
// exercise the reconciliation behavior against one consistent dataset. It
// enforces the same one-job-per-booking rule the database does.
type fakeStore struct {
	jobs     map[int64]*job.Job
	bookings map[int64]*booking.BookingWithDetails
	techs    map[int64]*technician.Technician
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:     make(map[int64]*job.Job),
		bookings: make(map[int64]*booking.BookingWithDetails),
		techs:    make(map[int64]*technician.Technician),
	}
}

func (f *fakeStore) addBooking(id int64, st status.Status) *booking.BookingWithDetails {
	b := &booking.BookingWithDetails{
		Booking: booking.Booking{
			ID:               id,
			BookingReference: fmt.Sprintf("BK-%d", id),
			Date:             time.Now(),
			TimeSlot:         "morning",
			Location:         "12 Main St",
			Status:           st,
			TotalAmount:      5000,
		},
		CustomerName: "Jordan Pike",
		Services:     []booking.ServiceLine{{ServiceID: 1, ServiceName: "Exterior Wash", Quantity: 1, PriceAtBooking: 5000}},
	}
	f.bookings[id] = b
	return b
}

func (f *fakeStore) addJob(bookingID int64, st status.Status) *job.Job {
	f.nextID++
	j := &job.Job{
		ID:           f.nextID,
		JobReference: fmt.Sprintf("JOB-%d", f.nextID),
		Date:         time.Now(),
		Status:       st,
	}
	if bookingID > 0 {
		j.BookingID = sql.NullInt64{Int64: bookingID, Valid: true}
	}
	f.jobs[j.ID] = j
	return j
}

func (f *fakeStore) jobForBooking(bookingID int64) *job.Job {
	for _, j := range f.jobs {
		if j.BookingID.Valid && j.BookingID.Int64 == bookingID {
			return j
		}
	}
	return nil
}

// --- JobRepo ---

func (f *fakeStore) CreateMissingFromBookings(ctx context.Context, refPrefix string) (int64, error) {
	var created int64
	for id, b := range f.bookings {
		if !b.Status.IsActive() {
			continue
		}
		if f.jobForBooking(id) != nil {
			continue
		}
		j := f.addJob(id, b.Status)
		j.JobReference = fmt.Sprintf("%s%d", refPrefix, j.ID)
		created++
	}
	return created, nil
}

func (f *fakeStore) EnsureForBooking(ctx context.Context, bookingID int64, jobRef string, technicianID *int64) (*job.Job, bool, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, false, xerrors.ErrNotFound
	}

	if j := f.jobForBooking(bookingID); j != nil {
		f.applyTechnician(j, technicianID)
		return j, false, nil
	}

	st := b.Status
	if st == status.StatusDraft {
		st = status.StatusScheduled
	}
	j := f.addJob(bookingID, st)
	j.JobReference = jobRef
	f.applyTechnician(j, technicianID)
	return j, true, nil
}

func (f *fakeStore) applyTechnician(j *job.Job, technicianID *int64) {
	if technicianID == nil {
		return
	}
	if *technicianID > 0 {
		j.TechnicianID = sql.NullInt64{Int64: *technicianID, Valid: true}
	} else {
		j.TechnicianID = sql.NullInt64{}
	}
}

func (f *fakeStore) FindByID(ctx context.Context, id int64) (*job.Job, error) {
	if j, ok := f.jobs[id]; ok {
		return j, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) FindByBookingID(ctx context.Context, bookingID int64) (*job.Job, error) {
	if j := f.jobForBooking(bookingID); j != nil {
		return j, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) details(j *job.Job) job.JobWithDetails {
	d := job.JobWithDetails{Job: *j}
	if j.BookingID.Valid {
		if b, ok := f.bookings[j.BookingID.Int64]; ok {
			d.BookingReference = b.BookingReference
			d.CustomerName = b.CustomerName
			d.Location = b.Location
			d.TotalAmount = b.TotalAmount
		}
	}
	return d
}

func (f *fakeStore) FindDetailsByID(ctx context.Context, id int64) (*job.JobWithDetails, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	d := f.details(j)
	return &d, nil
}

func (f *fakeStore) ListWithDetails(ctx context.Context, filters *job.WorkItemListFilters) ([]job.JobWithDetails, error) {
	var out []job.JobWithDetails
	for _, j := range f.jobs {
		if filters.Status != "" && string(j.Status) != filters.Status {
			continue
		}
		out = append(out, f.details(j))
	}
	return out, nil
}

func (f *fakeStore) UpdateTechnician(ctx context.Context, id int64, technicianID sql.NullInt64) error {
	j, ok := f.jobs[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	j.TechnicianID = technicianID
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, s status.Status) error {
	j, ok := f.jobs[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	j.Status = s
	return nil
}

func (f *fakeStore) UpdateTimes(ctx context.Context, id int64, start, end sql.NullTime, notes sql.NullString) error {
	j, ok := f.jobs[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	j.StartTime, j.EndTime, j.Notes = start, end, notes
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.jobs[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

// --- BookingSource ---

func (f *fakeStore) ListUncoveredByJobs(ctx context.Context, statuses []status.Status) ([]booking.BookingWithDetails, error) {
	var out []booking.BookingWithDetails
	for id, b := range f.bookings {
		match := false
		for _, st := range statuses {
			if b.Status == st {
				match = true
			}
		}
		if !match || f.jobForBooking(id) != nil {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) FindBookingByID(ctx context.Context, id int64) (*booking.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return &b.Booking, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id int64, s status.Status) error {
	b, ok := f.bookings[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	b.Status = s
	return nil
}

// bookingSource adapts fakeStore to the BookingSource method names.
type bookingSource struct{ *fakeStore }

func (b bookingSource) FindByID(ctx context.Context, id int64) (*booking.Booking, error) {
	return b.FindBookingByID(ctx, id)
}

func (b bookingSource) UpdateStatus(ctx context.Context, id int64, s status.Status) error {
	return b.UpdateBookingStatus(ctx, id, s)
}

// --- TechnicianSource ---

type techSource struct{ *fakeStore }

func (t techSource) FindByID(ctx context.Context, id int64) (*technician.Technician, error) {
	if tech, ok := t.techs[id]; ok {
		return tech, nil
	}
	return nil, xerrors.ErrNotFound
}

func newTestService(f *fakeStore) *JobService {
	return NewJobService(f, bookingSource{f}, techSource{f}, nil, zap.NewNop())
}

func TestListWorkItemsCoversEveryActiveBookingOnce(t *testing.T) {
	f := newFakeStore()
	f.addBooking(1, status.StatusInProgress)
	f.addBooking(2, status.StatusCompleted)
	f.addBooking(3, status.StatusDraft)     // not active, should not appear
	f.addBooking(4, status.StatusScheduled) // active, no job yet
	f.addJob(1, status.StatusInProgress)    // booking 1 materialized
	f.addJob(0, status.StatusScheduled)     // standalone job

	svc := newTestService(f)
	items, err := svc.ListWorkItems(context.Background(), &job.WorkItemListFilters{})
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}

	if len(items) != 4 {
		t.Fatalf("expected 4 work items, got %d", len(items))
	}

	seen := make(map[int64]int)
	wantVirtual := map[int64]bool{2: true, 4: true}
	virtual := 0
	for _, item := range items {
		if item.BookingID != 0 {
			seen[item.BookingID]++
		}
		if item.Source == job.SourceBooking {
			virtual++
			if !wantVirtual[item.BookingID] {
				t.Errorf("unexpected virtual item for booking %d", item.BookingID)
			}
			if item.TechnicianName != "Unassigned" {
				t.Errorf("virtual item technician = %q, want Unassigned", item.TechnicianName)
			}
		}
		if item.TechnicianID == 0 && item.TechnicianName != "Unassigned" {
			t.Errorf("item %s without technician shows %q", item.Reference, item.TechnicianName)
		}
	}
	if virtual != 2 {
		t.Errorf("expected exactly 2 virtual items, got %d", virtual)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("booking %d represented %d times, want 1", id, n)
		}
	}
}

func TestListWorkItemsRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.ListWorkItems(context.Background(), &job.WorkItemListFilters{Status: "bogus"})
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAutoCreateJobsIsIdempotent(t *testing.T) {
	f := newFakeStore()
	f.addBooking(1, status.StatusInProgress)
	f.addBooking(2, status.StatusCompleted)
	f.addBooking(3, status.StatusScheduled)
	f.addBooking(4, status.StatusDraft) // not active, no job

	svc := newTestService(f)
	res, err := svc.AutoCreateJobs(context.Background())
	if err != nil {
		t.Fatalf("AutoCreateJobs: %v", err)
	}
	if res.Created != 3 {
		t.Fatalf("expected 3 jobs created, got %d", res.Created)
	}

	// Status carries over from the booking.
	if j := f.jobForBooking(2); j == nil || j.Status != status.StatusCompleted {
		t.Errorf("job for completed booking has wrong status: %+v", j)
	}
	if j := f.jobForBooking(3); j == nil || j.Status != status.StatusScheduled {
		t.Errorf("job for scheduled booking has wrong status: %+v", j)
	}
	if f.jobForBooking(4) != nil {
		t.Error("draft booking should not get a job")
	}

	res, err = svc.AutoCreateJobs(context.Background())
	if err != nil {
		t.Fatalf("AutoCreateJobs second run: %v", err)
	}
	if res.Created != 0 {
		t.Fatalf("second run created %d jobs, want 0", res.Created)
	}
}

func TestAssignTechnicianMaterializesBookingItem(t *testing.T) {
	f := newFakeStore()
	f.addBooking(7, status.StatusInProgress)
	f.techs[4] = &technician.Technician{ID: 4, FullName: "Sam Otieno", Active: true}

	svc := newTestService(f)
	j, err := svc.AssignTechnician(context.Background(), job.Ref{Source: job.SourceBooking, ID: 7}, 4)
	if err != nil {
		t.Fatalf("AssignTechnician: %v", err)
	}

	if !j.BookingID.Valid || j.BookingID.Int64 != 7 {
		t.Errorf("materialized job not linked to booking: %+v", j.BookingID)
	}
	if !j.TechnicianID.Valid || j.TechnicianID.Int64 != 4 {
		t.Errorf("technician not set: %+v", j.TechnicianID)
	}

	// Assigning again must reuse the same row.
	again, err := svc.AssignTechnician(context.Background(), job.Ref{Source: job.SourceBooking, ID: 7}, 4)
	if err != nil {
		t.Fatalf("second AssignTechnician: %v", err)
	}
	if again.ID != j.ID {
		t.Errorf("second assignment created a new job: %d vs %d", again.ID, j.ID)
	}
}

func TestAssignTechnicianRejectsInactive(t *testing.T) {
	f := newFakeStore()
	f.addJob(0, status.StatusScheduled)
	f.techs[9] = &technician.Technician{ID: 9, FullName: "Idle Hand", Active: false}

	svc := newTestService(f)
	_, err := svc.AssignTechnician(context.Background(), job.Ref{Source: job.SourceJob, ID: 1}, 9)
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inactive technician, got %v", err)
	}
}

func TestAssignTechnicianZeroClears(t *testing.T) {
	f := newFakeStore()
	j := f.addJob(0, status.StatusScheduled)
	j.TechnicianID = sql.NullInt64{Int64: 3, Valid: true}

	svc := newTestService(f)
	got, err := svc.AssignTechnician(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, 0)
	if err != nil {
		t.Fatalf("AssignTechnician: %v", err)
	}
	if got.TechnicianID.Valid {
		t.Errorf("technician should be cleared, got %+v", got.TechnicianID)
	}
}

func TestUpdateStatusMirrorsToBooking(t *testing.T) {
	f := newFakeStore()
	f.addBooking(1, status.StatusInProgress)
	j := f.addJob(1, status.StatusInProgress)

	svc := newTestService(f)
	got, err := svc.UpdateStatus(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, status.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != status.StatusCompleted {
		t.Errorf("job status = %s, want completed", got.Status)
	}
	if f.bookings[1].Status != status.StatusCompleted {
		t.Errorf("booking status = %s, want completed", f.bookings[1].Status)
	}
}

func TestUpdateStatusRejectsBackwardMove(t *testing.T) {
	f := newFakeStore()
	j := f.addJob(0, status.StatusCompleted)

	svc := newTestService(f)
	_, err := svc.UpdateStatus(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, status.StatusInProgress)
	if !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusRejectsDraft(t *testing.T) {
	f := newFakeStore()
	j := f.addJob(0, status.StatusScheduled)

	svc := newTestService(f)
	_, err := svc.UpdateStatus(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, status.StatusDraft)
	if !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for draft, got %v", err)
	}
}

func TestUpdateStatusVirtualItemUpdatesBookingOnly(t *testing.T) {
	f := newFakeStore()
	f.addBooking(5, status.StatusInProgress)

	svc := newTestService(f)
	item, err := svc.UpdateStatus(context.Background(), job.Ref{Source: job.SourceBooking, ID: 5}, status.StatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if item.Source != job.SourceBooking || item.BookingID != 5 {
		t.Errorf("expected a virtual item back, got %+v", item)
	}
	if f.bookings[5].Status != status.StatusCancelled {
		t.Errorf("booking status = %s, want cancelled", f.bookings[5].Status)
	}
	if len(f.jobs) != 0 {
		t.Errorf("virtual status change created %d job rows, want 0", len(f.jobs))
	}

	// Terminal bookings refuse further moves through the work list too.
	if _, err := svc.UpdateStatus(context.Background(), job.Ref{Source: job.SourceBooking, ID: 5}, status.StatusInProgress); !errors.Is(err, xerrors.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus on cancelled booking, got %v", err)
	}
}

func TestUpdateStatusBookingRefUsesMaterializedJob(t *testing.T) {
	f := newFakeStore()
	f.addBooking(6, status.StatusInProgress)
	j := f.addJob(6, status.StatusInProgress)

	svc := newTestService(f)
	item, err := svc.UpdateStatus(context.Background(), job.Ref{Source: job.SourceBooking, ID: 6}, status.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if item.Source != job.SourceJob || item.JobID != j.ID {
		t.Errorf("expected the materialized job %d, got %+v", j.ID, item)
	}
	if f.jobs[j.ID].Status != status.StatusCompleted {
		t.Errorf("job status = %s, want completed", f.jobs[j.ID].Status)
	}
	if f.bookings[6].Status != status.StatusCompleted {
		t.Errorf("booking did not follow job status: %s", f.bookings[6].Status)
	}
}

func TestDeleteWorkItemRefusesBookingDerived(t *testing.T) {
	f := newFakeStore()
	f.addBooking(1, status.StatusInProgress)
	derived := f.addJob(1, status.StatusInProgress)
	standalone := f.addJob(0, status.StatusScheduled)

	svc := newTestService(f)

	if err := svc.DeleteWorkItem(context.Background(), job.Ref{Source: job.SourceBooking, ID: 1}); !errors.Is(err, xerrors.ErrBookingDerived) {
		t.Errorf("virtual item delete: expected ErrBookingDerived, got %v", err)
	}
	if err := svc.DeleteWorkItem(context.Background(), job.Ref{Source: job.SourceJob, ID: derived.ID}); !errors.Is(err, xerrors.ErrBookingDerived) {
		t.Errorf("materialized item delete: expected ErrBookingDerived, got %v", err)
	}
	if err := svc.DeleteWorkItem(context.Background(), job.Ref{Source: job.SourceJob, ID: standalone.ID}); err != nil {
		t.Errorf("standalone job delete: %v", err)
	}
	if _, ok := f.jobs[standalone.ID]; ok {
		t.Error("standalone job still present after delete")
	}
}

func TestGetWorkItemPrefersMaterializedJob(t *testing.T) {
	f := newFakeStore()
	f.addBooking(2, status.StatusInProgress)
	j := f.addJob(2, status.StatusInProgress)

	svc := newTestService(f)
	item, err := svc.GetWorkItem(context.Background(), job.Ref{Source: job.SourceBooking, ID: 2})
	if err != nil {
		t.Fatalf("GetWorkItem: %v", err)
	}
	if item.Source != job.SourceJob || item.JobID != j.ID {
		t.Errorf("expected materialized job %d, got %+v", j.ID, item)
	}
}

func TestUpdateJobTimes(t *testing.T) {
	f := newFakeStore()
	j := f.addJob(0, status.StatusInProgress)

	svc := newTestService(f)
	start := "2026-08-30T09:00:00Z"
	notes := "gate code 4411"
	got, err := svc.UpdateJob(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, &job.UpdateJobRequest{
		StartTime: &start,
		Notes:     &notes,
	})
	if err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if !got.StartTime.Valid || got.StartTime.Time.Hour() != 9 {
		t.Errorf("start time not applied: %+v", got.StartTime)
	}
	if !got.Notes.Valid || got.Notes.String != notes {
		t.Errorf("notes not applied: %+v", got.Notes)
	}

	// Empty string clears.
	empty := ""
	got, err = svc.UpdateJob(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, &job.UpdateJobRequest{StartTime: &empty})
	if err != nil {
		t.Fatalf("UpdateJob clear: %v", err)
	}
	if got.StartTime.Valid {
		t.Errorf("start time should be cleared, got %+v", got.StartTime)
	}

	bad := "not-a-time"
	if _, err := svc.UpdateJob(context.Background(), job.Ref{Source: job.SourceJob, ID: j.ID}, &job.UpdateJobRequest{EndTime: &bad}); !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad time, got %v", err)
	}
}
