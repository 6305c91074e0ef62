// internal/service/job/job.go
package job

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/status"
	"mobiwash-service/internal/domain/technician"
	xerrors "mobiwash-service/internal/pkg/errors"
	"mobiwash-service/internal/pkg/reference"

	"go.uber.org/zap"
)

type JobRepo interface {
	CreateMissingFromBookings(ctx context.Context, refPrefix string) (int64, error)
	EnsureForBooking(ctx context.Context, bookingID int64, jobRef string, technicianID *int64) (*job.Job, bool, error)
	FindByID(ctx context.Context, id int64) (*job.Job, error)
	FindByBookingID(ctx context.Context, bookingID int64) (*job.Job, error)
	FindDetailsByID(ctx context.Context, id int64) (*job.JobWithDetails, error)
	ListWithDetails(ctx context.Context, filters *job.WorkItemListFilters) ([]job.JobWithDetails, error)
	UpdateTechnician(ctx context.Context, id int64, technicianID sql.NullInt64) error
	UpdateStatus(ctx context.Context, id int64, s status.Status) error
	UpdateTimes(ctx context.Context, id int64, start, end sql.NullTime, notes sql.NullString) error
	Delete(ctx context.Context, id int64) error
}

type BookingSource interface {
	ListUncoveredByJobs(ctx context.Context, statuses []status.Status) ([]booking.BookingWithDetails, error)
	FindByID(ctx context.Context, id int64) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, id int64, s status.Status) error
}

type TechnicianSource interface {
	FindByID(ctx context.Context, id int64) (*technician.Technician, error)
}

type EventPublisher interface {
	PublishEntityEvent(eventType, entity string, entityID int64, reference string, st string)
}

// activeStatuses are the booking states that belong on the job board and
// therefore warrant a job record.
var activeStatuses = []status.Status{status.StatusScheduled, status.StatusInProgress, status.StatusCompleted}

// unassignedTechnician is what a work item carries in place of a
// technician name until one is assigned.
const unassignedTechnician = "Unassigned"

// JobService reconciles the booking ledger with the operational job list.
// Every active booking is represented exactly once: by its materialized
// job when one exists, otherwise by a virtual work item synthesized
// straight from the booking.
type JobService struct {
	jobRepo     JobRepo
	bookings    BookingSource
	technicians TechnicianSource
	events      EventPublisher
	logger      *zap.Logger
}

func NewJobService(jobRepo JobRepo, bookings BookingSource, technicians TechnicianSource, events EventPublisher, logger *zap.Logger) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		bookings:    bookings,
		technicians: technicians,
		events:      events,
		logger:      logger,
	}
}

// ListWorkItems returns the unified work list: all job rows plus one
// virtual item per active booking that has no job yet. The uncovered query
// excludes bookings with jobs, so no booking can appear twice.
func (s *JobService) ListWorkItems(ctx context.Context, filters *job.WorkItemListFilters) ([]job.WorkItem, error) {
	if filters.Status != "" {
		if _, err := status.Parse(filters.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
		}
	}

	jobs, err := s.jobRepo.ListWithDetails(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	uncovered, err := s.bookings.ListUncoveredByJobs(ctx, activeStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncovered bookings: %w", err)
	}

	items := make([]job.WorkItem, 0, len(jobs)+len(uncovered))
	for i := range jobs {
		items = append(items, workItemFromJob(&jobs[i]))
	}
	for i := range uncovered {
		item := workItemFromBooking(&uncovered[i])
		if !matchesFilters(&item, filters) {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// AutoCreateJobs materializes jobs for every active booking lacking one, in
// a single idempotent statement. Safe to call concurrently and on a timer.
func (s *JobService) AutoCreateJobs(ctx context.Context) (*job.AutoCreateResult, error) {
	prefix := fmt.Sprintf("JOB-%s-", time.Now().Format("20060102"))

	created, err := s.jobRepo.CreateMissingFromBookings(ctx, prefix)
	if err != nil {
		s.logger.Error("job auto-create failed", zap.Error(err))
		return nil, err
	}

	if created > 0 {
		s.logger.Info("jobs auto-created from bookings", zap.Int64("created", created))
		if s.events != nil {
			s.events.PublishEntityEvent("job:created", "job", 0, "", "")
		}
	}

	return &job.AutoCreateResult{Created: created}, nil
}

// EnsureForBooking materializes the job for one booking and reports whether
// it was created by this call. Used when a booking enters an active status.
func (s *JobService) EnsureForBooking(ctx context.Context, bookingID int64) (*job.Job, bool, error) {
	return s.jobRepo.EnsureForBooking(ctx, bookingID, reference.New("JOB"), nil)
}

// FindByBookingID exposes the booking -> job lookup for status mirroring.
func (s *JobService) FindByBookingID(ctx context.Context, bookingID int64) (*job.Job, error) {
	return s.jobRepo.FindByBookingID(ctx, bookingID)
}

// SetStatus writes a job's status without transition checks. Reserved for
// mirroring a booking transition that has already been validated.
func (s *JobService) SetStatus(ctx context.Context, jobID int64, st status.Status) error {
	return s.jobRepo.UpdateStatus(ctx, jobID, st)
}

// GetWorkItem resolves a work-item reference to its current state.
func (s *JobService) GetWorkItem(ctx context.Context, ref job.Ref) (*job.WorkItem, error) {
	if ref.Source == job.SourceBooking {
		// The booking may have been materialized since the client
		// fetched its list; prefer the real job when it exists.
		if j, err := s.jobRepo.FindByBookingID(ctx, ref.ID); err == nil {
			return s.workItemByJobID(ctx, j.ID)
		}

		b, err := s.bookings.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		d, err := s.bookingDetails(ctx, b)
		if err != nil {
			return nil, err
		}
		item := workItemFromBooking(d)
		return &item, nil
	}

	return s.workItemByJobID(ctx, ref.ID)
}

func (s *JobService) workItemByJobID(ctx context.Context, jobID int64) (*job.WorkItem, error) {
	d, err := s.jobRepo.FindDetailsByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	item := workItemFromJob(d)
	return &item, nil
}

// AssignTechnician assigns (or clears, with id 0) a technician on a work
// item. Assigning to a booking-derived item materializes the job first, so
// the assignment always lands on a real row.
func (s *JobService) AssignTechnician(ctx context.Context, ref job.Ref, technicianID int64) (*job.Job, error) {
	if technicianID > 0 {
		t, err := s.technicians.FindByID(ctx, technicianID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve technician: %w", err)
		}
		if !t.Active {
			return nil, fmt.Errorf("%w: technician %d is inactive", xerrors.ErrInvalidInput, technicianID)
		}
	}

	if ref.Source == job.SourceBooking {
		j, created, err := s.jobRepo.EnsureForBooking(ctx, ref.ID, reference.New("JOB"), &technicianID)
		if err != nil {
			return nil, err
		}
		if created {
			s.logger.Info("job materialized on technician assignment",
				zap.Int64("booking_id", ref.ID),
				zap.Int64("job_id", j.ID),
			)
			if s.events != nil {
				s.events.PublishEntityEvent("job:created", "job", j.ID, j.JobReference, string(j.Status))
			}
		}
		return j, nil
	}

	var tech sql.NullInt64
	if technicianID > 0 {
		tech = sql.NullInt64{Int64: technicianID, Valid: true}
	}

	if err := s.jobRepo.UpdateTechnician(ctx, ref.ID, tech); err != nil {
		return nil, err
	}

	j, err := s.jobRepo.FindByID(ctx, ref.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("technician assignment changed",
		zap.Int64("job_id", j.ID),
		zap.Int64("technician_id", technicianID),
	)
	if s.events != nil {
		s.events.PublishEntityEvent("job:updated", "job", j.ID, j.JobReference, string(j.Status))
	}

	return j, nil
}

// UpdateStatus moves a work item along the lifecycle. A materialized job
// updates in place and its booking follows. A virtual item updates the
// underlying booking directly; no job row is created for it.
func (s *JobService) UpdateStatus(ctx context.Context, ref job.Ref, next status.Status) (*job.WorkItem, error) {
	if next == status.StatusDraft {
		return nil, fmt.Errorf("%w: jobs cannot be draft", xerrors.ErrInvalidStatus)
	}

	if ref.Source == job.SourceBooking {
		// The item may have been materialized since the client listed it.
		if j, err := s.jobRepo.FindByBookingID(ctx, ref.ID); err == nil {
			return s.updateJobStatus(ctx, j, next)
		}
		return s.updateBookingStatus(ctx, ref.ID, next)
	}

	j, err := s.jobRepo.FindByID(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	return s.updateJobStatus(ctx, j, next)
}

func (s *JobService) updateJobStatus(ctx context.Context, j *job.Job, next status.Status) (*job.WorkItem, error) {
	if !j.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", xerrors.ErrInvalidStatus, j.Status, next)
	}

	if err := s.jobRepo.UpdateStatus(ctx, j.ID, next); err != nil {
		return nil, err
	}
	j.Status = next

	s.logger.Info("job status changed",
		zap.Int64("job_id", j.ID),
		zap.String("status", string(next)),
	)

	if j.BookingID.Valid {
		s.mirrorToBooking(ctx, j.BookingID.Int64, next)
	}

	if s.events != nil {
		s.events.PublishEntityEvent("job:updated", "job", j.ID, j.JobReference, string(j.Status))
	}

	return s.workItemByJobID(ctx, j.ID)
}

func (s *JobService) updateBookingStatus(ctx context.Context, bookingID int64, next status.Status) (*job.WorkItem, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", xerrors.ErrInvalidStatus, b.Status, next)
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, next); err != nil {
		return nil, err
	}
	b.Status = next

	s.logger.Info("booking status changed through work list",
		zap.Int64("booking_id", bookingID),
		zap.String("status", string(next)),
	)

	if s.events != nil {
		s.events.PublishEntityEvent("booking:updated", "booking", b.ID, b.BookingReference, string(next))
	}

	d, err := s.bookingDetails(ctx, b)
	if err != nil {
		return nil, err
	}
	item := workItemFromBooking(d)
	return &item, nil
}

func (s *JobService) mirrorToBooking(ctx context.Context, bookingID int64, next status.Status) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		s.logger.Warn("failed to load booking for status mirror",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
		return
	}

	if b.Status == next || !b.Status.CanTransitionTo(next) {
		return
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, next); err != nil {
		s.logger.Warn("failed to mirror status to booking",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
		return
	}

	if s.events != nil {
		s.events.PublishEntityEvent("booking:updated", "booking", b.ID, b.BookingReference, string(next))
	}
}

// UpdateJob edits a work item's execution details. Booking-derived items
// are materialized first so the edit has a row to land on.
func (s *JobService) UpdateJob(ctx context.Context, ref job.Ref, req *job.UpdateJobRequest) (*job.Job, error) {
	var j *job.Job
	var err error
	if ref.Source == job.SourceBooking {
		j, _, err = s.jobRepo.EnsureForBooking(ctx, ref.ID, reference.New("JOB"), nil)
	} else {
		j, err = s.jobRepo.FindByID(ctx, ref.ID)
	}
	if err != nil {
		return nil, err
	}

	start, err := applyTimeField(j.StartTime, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_time: %v", xerrors.ErrInvalidInput, err)
	}
	end, err := applyTimeField(j.EndTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_time: %v", xerrors.ErrInvalidInput, err)
	}

	notes := j.Notes
	if req.Notes != nil {
		notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}

	if err := s.jobRepo.UpdateTimes(ctx, j.ID, start, end, notes); err != nil {
		return nil, err
	}

	j.StartTime, j.EndTime, j.Notes = start, end, notes
	return j, nil
}

// DeleteWorkItem removes a standalone job. Booking-derived items, virtual
// or materialized, are refused: the booking owns the record and must be
// deleted through the booking API, which cascades to the job.
func (s *JobService) DeleteWorkItem(ctx context.Context, ref job.Ref) error {
	if ref.Source == job.SourceBooking {
		return xerrors.ErrBookingDerived
	}

	j, err := s.jobRepo.FindByID(ctx, ref.ID)
	if err != nil {
		return err
	}
	if j.BookingID.Valid {
		return xerrors.ErrBookingDerived
	}

	if err := s.jobRepo.Delete(ctx, ref.ID); err != nil {
		return err
	}

	s.logger.Info("job deleted", zap.Int64("job_id", ref.ID))
	return nil
}

// --- Work item assembly ---

func workItemFromJob(d *job.JobWithDetails) job.WorkItem {
	item := job.WorkItem{
		Source:           job.SourceJob,
		JobID:            d.ID,
		Reference:        d.JobReference,
		BookingReference: d.BookingReference,
		CustomerName:     d.CustomerName,
		CustomerPhone:    d.CustomerPhone,
		TechnicianName:   d.TechnicianName,
		Date:             d.Date,
		Status:           d.Status,
		Location:         d.Location,
		ServiceNames:     d.ServiceNames,
		TotalAmount:      d.TotalAmount,
	}
	if d.BookingID.Valid {
		item.BookingID = d.BookingID.Int64
	}
	if d.TechnicianID.Valid {
		item.TechnicianID = d.TechnicianID.Int64
	}
	if item.TechnicianName == "" {
		item.TechnicianName = unassignedTechnician
	}
	if d.Notes.Valid {
		item.Notes = d.Notes.String
	}
	return item
}

func workItemFromBooking(d *booking.BookingWithDetails) job.WorkItem {
	item := job.WorkItem{
		Source:           job.SourceBooking,
		BookingID:        d.ID,
		Reference:        d.BookingReference,
		BookingReference: d.BookingReference,
		CustomerName:     d.CustomerName,
		CustomerPhone:    d.CustomerPhone,
		TechnicianName:   unassignedTechnician,
		Date:             d.Date,
		Status:           d.Status,
		Location:         d.Location,
		TotalAmount:      d.TotalAmount,
	}
	for _, line := range d.Services {
		item.ServiceNames = append(item.ServiceNames, line.ServiceName)
	}
	if d.Notes.Valid {
		item.Notes = d.Notes.String
	}
	return item
}

func (s *JobService) bookingDetails(ctx context.Context, b *booking.Booking) (*booking.BookingWithDetails, error) {
	uncovered, err := s.bookings.ListUncoveredByJobs(ctx, activeStatuses)
	if err != nil {
		return nil, err
	}
	for i := range uncovered {
		if uncovered[i].ID == b.ID {
			return &uncovered[i], nil
		}
	}
	return &booking.BookingWithDetails{Booking: *b}, nil
}

// applyTimeField keeps the current value when the request omits the field,
// clears it on empty string, otherwise parses RFC 3339.
func applyTimeField(current sql.NullTime, raw *string) (sql.NullTime, error) {
	if raw == nil {
		return current, nil
	}
	if *raw == "" {
		return sql.NullTime{}, nil
	}

	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func matchesFilters(item *job.WorkItem, filters *job.WorkItemListFilters) bool {
	if filters.Status != "" && string(item.Status) != filters.Status {
		return false
	}
	if filters.Search != "" {
		q := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(item.Reference), q) &&
			!strings.Contains(strings.ToLower(item.CustomerName), q) &&
			!strings.Contains(strings.ToLower(item.TechnicianName), q) {
			return false
		}
	}
	return true
}
