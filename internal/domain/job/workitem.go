package job

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mobiwash-service/internal/domain/status"
)

// Source discriminates the two cases of a work item: one backed by a real
// job row and one synthesized from an in-progress/completed booking that has
// no job row yet.
type Source string

const (
	SourceJob     Source = "job"
	SourceBooking Source = "booking"
)

// WorkItem is the unified row staff track, regardless of whether a job
// record has been materialized. Exactly one of JobID/BookingID identifies
// the backing row depending on Source (a job materialized from a booking
// carries both).
type WorkItem struct {
	Source Source `json:"source"`

	JobID     int64 `json:"job_id,omitempty"`     // valid when Source == SourceJob
	BookingID int64 `json:"booking_id,omitempty"` // valid when booking-backed

	Reference        string        `json:"reference"`
	BookingReference string        `json:"booking_reference,omitempty"`
	CustomerName     string        `json:"customer_name,omitempty"`
	CustomerPhone    string        `json:"customer_phone,omitempty"`
	TechnicianID     int64         `json:"technician_id,omitempty"`
	TechnicianName   string        `json:"technician_name"`
	Date             time.Time     `json:"date"`
	Status           status.Status `json:"status"`
	Location         string        `json:"location,omitempty"`
	ServiceNames     []string      `json:"service_names,omitempty"`
	TotalAmount      int64         `json:"total_amount"`
	Notes            string        `json:"notes,omitempty"`
}

// APIID is the identifier exposed over HTTP: the numeric job id for real
// jobs, "booking-<id>" for booking-derived items.
func (w *WorkItem) APIID() string {
	if w.Source == SourceBooking {
		return fmt.Sprintf("booking-%d", w.BookingID)
	}
	return strconv.FormatInt(w.JobID, 10)
}

// Ref identifies a work item in a request: either a real job id or the
// underlying booking id of a virtual item.
type Ref struct {
	Source Source
	ID     int64
}

// ParseRef converts the wire form ("123" or "booking-123") into a typed Ref.
func ParseRef(raw string) (Ref, error) {
	if rest, ok := strings.CutPrefix(raw, "booking-"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Ref{}, fmt.Errorf("invalid booking-derived work item id %q", raw)
		}
		return Ref{Source: SourceBooking, ID: id}, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, fmt.Errorf("invalid work item id %q", raw)
	}
	return Ref{Source: SourceJob, ID: id}, nil
}
