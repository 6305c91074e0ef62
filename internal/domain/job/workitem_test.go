package job

import "testing"

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("42")
	if err != nil {
		t.Fatalf("ParseRef(42): %v", err)
	}
	if ref.Source != SourceJob || ref.ID != 42 {
		t.Errorf("got %+v, want job 42", ref)
	}

	ref, err = ParseRef("booking-17")
	if err != nil {
		t.Fatalf("ParseRef(booking-17): %v", err)
	}
	if ref.Source != SourceBooking || ref.ID != 17 {
		t.Errorf("got %+v, want booking 17", ref)
	}

	for _, raw := range []string{"", "0", "-5", "booking-", "booking-0", "booking-x", "abc"} {
		if _, err := ParseRef(raw); err == nil {
			t.Errorf("ParseRef(%q) accepted invalid input", raw)
		}
	}
}

func TestWorkItemAPIID(t *testing.T) {
	w := WorkItem{Source: SourceJob, JobID: 9}
	if got := w.APIID(); got != "9" {
		t.Errorf("job APIID = %q", got)
	}

	w = WorkItem{Source: SourceBooking, BookingID: 3}
	if got := w.APIID(); got != "booking-3" {
		t.Errorf("booking APIID = %q", got)
	}

	// API ids round-trip through ParseRef.
	ref, err := ParseRef(w.APIID())
	if err != nil || ref.Source != SourceBooking || ref.ID != 3 {
		t.Errorf("round trip failed: %+v, %v", ref, err)
	}
}
