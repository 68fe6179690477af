package booking

import "testing"

func TestRoster(t *testing.T) {
	t.Parallel()

	roster := NewRoster()

	if !roster.Add(10) {
		t.Fatal("first registration must grow the roster")
	}
	if roster.Add(10) {
		t.Fatal("re-registration must be a no-op")
	}
	roster.Add(5)

	if got := roster.All(); len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Fatalf("expected sorted ids [5 10], got %v", got)
	}
	if !roster.Contains(5) || roster.Contains(99) {
		t.Fatal("membership mismatch")
	}

	roster.Restore([]UserID{1, 2})
	if roster.Len() != 2 || !roster.Contains(1) || roster.Contains(10) {
		t.Fatal("restore must replace the whole set")
	}
}
