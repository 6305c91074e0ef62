package reference

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	ref := New("BK")
	parts := strings.Split(ref, "-")
	if len(parts) != 3 {
		t.Fatalf("unexpected reference shape %q", ref)
	}
	if parts[0] != "BK" {
		t.Errorf("prefix = %q, want BK", parts[0])
	}
	if len(parts[1]) != 8 {
		t.Errorf("date segment %q, want YYYYMMDD", parts[1])
	}
	if len(parts[2]) != 4 {
		t.Errorf("suffix %q, want 4 characters", parts[2])
	}
}

func TestNewIsReasonablyUnique(t *testing.T) {
	seen := make(map[string]bool)
	dupes := 0
	for i := 0; i < 200; i++ {
		ref := New("JOB")
		if seen[ref] {
			dupes++
		}
		seen[ref] = true
	}
	// The 4-char suffix gives over a million combinations; a couple of
	// collisions in 200 draws would mean the generator is broken.
	if dupes > 2 {
		t.Errorf("%d duplicate references in 200 draws", dupes)
	}
}
