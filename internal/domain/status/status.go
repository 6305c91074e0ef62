package status

import "fmt"

// Status is the canonical lifecycle status shared by bookings and jobs.
// Bookings start as draft; jobs are only ever created from scheduled work,
// so a job never holds StatusDraft.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// All lists every valid status value.
func All() []Status {
	return []Status{StatusDraft, StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether s describes committed work. Active bookings
// belong on the job board; drafts and cancellations do not.
func (s Status) IsActive() bool {
	return s == StatusScheduled || s == StatusInProgress || s == StatusCompleted
}

// CanTransitionTo reports whether moving from s to next is allowed.
// The forward path is draft -> scheduled -> in_progress -> completed;
// cancelled is reachable from any non-terminal state. Forward jumps
// (e.g. scheduled -> completed) are allowed, backward moves are not.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return rank(next) > rank(s)
}

func rank(s Status) int {
	switch s {
	case StatusDraft:
		return 0
	case StatusScheduled:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	default:
		return -1
	}
}

// Parse converts a raw string into a Status or fails.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}
