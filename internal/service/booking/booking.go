// internal/service/booking/booking.go
package booking

import (
	"context"
	"database/sql"
	"fmt"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/domain/customer"
	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/domain/status"
	xerrors "mobiwash-service/internal/pkg/errors"
	"mobiwash-service/internal/pkg/reference"

	"go.uber.org/zap"
)

type BookingRepo interface {
	CreateWithServices(ctx context.Context, b *booking.Booking, selections []booking.ServiceSelection) error
	FindByID(ctx context.Context, id int64) (*booking.Booking, error)
	FindByReference(ctx context.Context, ref string) (*booking.Booking, error)
	ListServices(ctx context.Context, bookingID int64) ([]booking.ServiceLine, error)
	List(ctx context.Context, filters *booking.BookingListFilters) ([]booking.BookingWithDetails, int64, error)
	UpdateScalars(ctx context.Context, id int64, b *booking.Booking) error
	ReplaceServices(ctx context.Context, bookingID int64, selections []booking.ServiceSelection) (int64, error)
	UpdateStatus(ctx context.Context, id int64, s status.Status) error
	DeleteCascade(ctx context.Context, id int64) error
}

type CustomerResolver interface {
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
	GetOrCreateByPhone(ctx context.Context, name, phone string) (*customer.Customer, error)
}

// JobMirror is the slice of the work-item engine bookings drive: jobs get
// materialized when a booking becomes active and their status follows the
// booking's.
type JobMirror interface {
	EnsureForBooking(ctx context.Context, bookingID int64) (*job.Job, bool, error)
	FindByBookingID(ctx context.Context, bookingID int64) (*job.Job, error)
	SetStatus(ctx context.Context, jobID int64, s status.Status) error
}

// EventPublisher pushes entity change notifications to connected admin
// clients. Implementations must not block.
type EventPublisher interface {
	PublishEntityEvent(eventType, entity string, entityID int64, reference string, st string)
}

type BookingService struct {
	bookingRepo BookingRepo
	customers   CustomerResolver
	jobs        JobMirror
	events      EventPublisher
	logger      *zap.Logger
}

func NewBookingService(bookingRepo BookingRepo, customers CustomerResolver, jobs JobMirror, events EventPublisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		customers:   customers,
		jobs:        jobs,
		events:      events,
		logger:      logger,
	}
}

// CreateBooking creates a booking with its service selection in one
// transaction. Customers are resolved by id when given, otherwise matched or
// created by phone number. Public submissions land as draft; admin callers
// may pass an explicit initial status.
func (s *BookingService) CreateBooking(ctx context.Context, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	st := req.Status
	if st == "" {
		st = status.StatusDraft
	}
	if !st.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", xerrors.ErrInvalidInput, req.Status)
	}

	var customerID sql.NullInt64
	switch {
	case req.CustomerID != nil:
		c, err := s.customers.GetCustomer(ctx, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
		customerID = sql.NullInt64{Int64: c.ID, Valid: true}
	case req.CustomerPhone != "":
		c, err := s.customers.GetOrCreateByPhone(ctx, req.CustomerName, req.CustomerPhone)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
		customerID = sql.NullInt64{Int64: c.ID, Valid: true}
	default:
		return nil, fmt.Errorf("%w: customer_id or customer_phone is required", xerrors.ErrInvalidInput)
	}

	b := &booking.Booking{
		BookingReference: reference.New("BK"),
		CustomerID:       customerID,
		Date:             req.Date,
		TimeSlot:         req.TimeSlot,
		Location:         req.Location,
		Notes:            sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Status:           st,
	}

	if err := s.bookingRepo.CreateWithServices(ctx, b, req.Services); err != nil {
		s.logger.Error("failed to create booking", zap.Error(err))
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("booking_reference", b.BookingReference),
		zap.String("status", string(b.Status)),
		zap.Int64("total_amount", b.TotalAmount),
	)

	if s.events != nil {
		s.events.PublishEntityEvent("booking:created", "booking", b.ID, b.BookingReference, string(b.Status))
	}

	// A booking born active gets its job right away. Failure here is not
	// fatal: the reconciliation sweep will pick the booking up later.
	if b.Status.IsActive() {
		s.ensureJob(ctx, b.ID)
	}

	return b, nil
}

// GetBooking retrieves a booking with customer and service details.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*booking.BookingWithDetails, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.withDetails(ctx, b)
}

// GetBookingByReference retrieves a booking by its public reference. The
// confirmation page uses this; it leaks nothing beyond the booking itself.
func (s *BookingService) GetBookingByReference(ctx context.Context, ref string) (*booking.BookingWithDetails, error) {
	b, err := s.bookingRepo.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	return s.withDetails(ctx, b)
}

func (s *BookingService) withDetails(ctx context.Context, b *booking.Booking) (*booking.BookingWithDetails, error) {
	services, err := s.bookingRepo.ListServices(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	d := &booking.BookingWithDetails{Booking: *b, Services: services}
	if b.CustomerID.Valid {
		if c, err := s.customers.GetCustomer(ctx, b.CustomerID.Int64); err == nil {
			d.CustomerName = c.FullName
			d.CustomerPhone = c.Phone
		}
	}

	return d, nil
}

// ListBookings lists bookings with details for the admin view.
func (s *BookingService) ListBookings(ctx context.Context, filters *booking.BookingListFilters) (*booking.BookingListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	if filters.Status != "" {
		if _, err := status.Parse(filters.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
		}
	}

	bookings, total, err := s.bookingRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return &booking.BookingListResponse{
		Bookings:   bookings,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize)),
	}, nil
}

// UpdateBooking applies a partial update. When the request replaces the
// service selection, the booking total is recomputed in the same
// transaction as the replacement.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, req *booking.UpdateBookingRequest) (*booking.BookingWithDetails, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		c, err := s.customers.GetCustomer(ctx, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
		b.CustomerID = sql.NullInt64{Int64: c.ID, Valid: true}
	}
	if req.Date != nil {
		b.Date = *req.Date
	}
	if req.TimeSlot != nil {
		b.TimeSlot = *req.TimeSlot
	}
	if req.Location != nil {
		b.Location = *req.Location
	}
	if req.Notes != nil {
		b.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}

	if err := s.bookingRepo.UpdateScalars(ctx, id, b); err != nil {
		s.logger.Error("failed to update booking", zap.Int64("booking_id", id), zap.Error(err))
		return nil, err
	}

	if len(req.Services) > 0 {
		total, err := s.bookingRepo.ReplaceServices(ctx, id, req.Services)
		if err != nil {
			return nil, err
		}
		b.TotalAmount = total
	}

	if s.events != nil {
		s.events.PublishEntityEvent("booking:updated", "booking", b.ID, b.BookingReference, string(b.Status))
	}

	return s.withDetails(ctx, b)
}

// UpdateStatus moves a booking along the status lifecycle. Transitions are
// validated; entering an active status materializes the job, and any
// existing job mirrors the new status so both views stay in step.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, next status.Status) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", xerrors.ErrInvalidStatus, b.Status, next)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	b.Status = next

	s.logger.Info("booking status changed",
		zap.Int64("booking_id", id),
		zap.String("status", string(next)),
	)

	if next.IsActive() {
		s.ensureJob(ctx, id)
	}

	// Mirror onto the materialized job, if one exists.
	if j, err := s.jobs.FindByBookingID(ctx, id); err == nil && j.Status != next && next != status.StatusDraft {
		if err := s.jobs.SetStatus(ctx, j.ID, next); err != nil {
			s.logger.Warn("failed to mirror status to job",
				zap.Int64("booking_id", id),
				zap.Int64("job_id", j.ID),
				zap.Error(err),
			)
		}
	}

	if s.events != nil {
		s.events.PublishEntityEvent("booking:updated", "booking", b.ID, b.BookingReference, string(b.Status))
	}

	return b, nil
}

// DeleteBooking removes a booking with its service rows and any job
// materialized from it, in one transaction.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookingRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.logger.Info("booking deleted", zap.Int64("booking_id", id))
	return nil
}

func (s *BookingService) ensureJob(ctx context.Context, bookingID int64) {
	j, created, err := s.jobs.EnsureForBooking(ctx, bookingID)
	if err != nil {
		s.logger.Warn("failed to materialize job for booking",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
		return
	}

	if created {
		s.logger.Info("job materialized from booking",
			zap.Int64("booking_id", bookingID),
			zap.Int64("job_id", j.ID),
			zap.String("job_reference", j.JobReference),
		)
		if s.events != nil {
			s.events.PublishEntityEvent("job:created", "job", j.ID, j.JobReference, string(j.Status))
		}
	}
}
