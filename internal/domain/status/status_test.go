package status

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusScheduled, true},
		{StatusDraft, StatusInProgress, true},
		{StatusDraft, StatusCompleted, true},
		{StatusDraft, StatusCancelled, true},
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusScheduled, StatusDraft, false},
		{StatusInProgress, StatusScheduled, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusScheduled, StatusScheduled, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusDraft, Status("bogus"), false},
		{Status("bogus"), StatusScheduled, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	for _, s := range All() {
		got, err := Parse(string(s))
		if err != nil || got != s {
			t.Errorf("Parse(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := Parse("pending"); err == nil {
		t.Error("Parse accepted unknown status")
	}
}

func TestIsActive(t *testing.T) {
	if !StatusScheduled.IsActive() || !StatusInProgress.IsActive() || !StatusCompleted.IsActive() {
		t.Error("scheduled, in_progress and completed must be active")
	}
	if StatusDraft.IsActive() || StatusCancelled.IsActive() {
		t.Error("draft and cancelled reported active")
	}
}

func TestIsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("completed and cancelled must be terminal")
	}
	if StatusDraft.IsTerminal() || StatusScheduled.IsTerminal() || StatusInProgress.IsTerminal() {
		t.Error("non-final statuses reported terminal")
	}
}
