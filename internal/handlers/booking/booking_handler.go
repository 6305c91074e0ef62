// internal/handlers/booking/booking_handler.go
package booking

import (
	"net/http"
	"strconv"
	"time"

	"mobiwash-service/internal/domain/booking"
	"mobiwash-service/internal/pkg/response"
	"mobiwash-service/internal/pkg/session"
	service "mobiwash-service/internal/service/booking"

	"github.com/gin-gonic/gin"
)

// Public submission rate limit per client IP.
const (
	publicSubmissionMax    = 10
	publicSubmissionWindow = time.Hour
)

type BookingHandler struct {
	bookingService *service.BookingService
	limiter        *session.RateLimiter
}

func NewBookingHandler(bookingService *service.BookingService, limiter *session.RateLimiter) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		limiter:        limiter,
	}
}

// SubmitBooking accepts a booking request from the public site. Submissions
// always start as drafts and are rate limited per IP.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	allowed, err := h.limiter.CheckPublicSubmission(c.Request.Context(), c.ClientIP(), publicSubmissionMax, publicSubmissionWindow)
	if err == nil && !allowed {
		response.Error(c, http.StatusTooManyRequests, "too many booking requests, try again later", nil)
		return
	}

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.Status = ""

	result, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to submit booking", err)
		return
	}

	response.Success(c, http.StatusCreated, "booking submitted", gin.H{
		"booking_reference": result.BookingReference,
		"status":            result.Status,
	})
}

// TrackBooking lets a customer look up their booking by reference
func (h *BookingHandler) TrackBooking(c *gin.Context) {
	ref := c.Param("reference")
	if ref == "" {
		response.ValidationError(c, "booking reference is required", nil)
		return
	}

	result, err := h.bookingService.GetBookingByReference(c.Request.Context(), ref)
	if err != nil {
		response.FromError(c, "booking not found", err)
		return
	}

	response.Success(c, http.StatusOK, "booking retrieved", result)
}

// CreateBooking creates a booking from the back office, any status allowed
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create booking", err)
		return
	}

	response.Success(c, http.StatusCreated, "booking created", result)
}

// GetBooking retrieves a booking with its service lines
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid booking ID", err)
		return
	}

	result, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "booking not found", err)
		return
	}

	response.Success(c, http.StatusOK, "booking retrieved", result)
}

// ListBookings retrieves bookings with filters
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var filters booking.BookingListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.bookingService.ListBookings(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list bookings", err)
		return
	}

	response.Success(c, http.StatusOK, "bookings retrieved", result)
}

// UpdateBooking updates booking details and optionally its service lines
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid booking ID", err)
		return
	}

	var req booking.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.bookingService.UpdateBooking(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update booking", err)
		return
	}

	response.Success(c, http.StatusOK, "booking updated", result)
}

// UpdateStatus moves a booking through its lifecycle
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid booking ID", err)
		return
	}

	var req booking.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.bookingService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, "failed to update booking status", err)
		return
	}

	response.Success(c, http.StatusOK, "booking status updated", result)
}

// DeleteBooking removes a booking and its dependents
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid booking ID", err)
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete booking", err)
		return
	}

	response.Success(c, http.StatusOK, "booking deleted", nil)
}
