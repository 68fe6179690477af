package timetable

import (
	"testing"
	"time"
)

func TestCatalog_At(t *testing.T) {
	t.Parallel()

	catalog := Catalog{
		{Day: time.Monday, Hour: 12, Minute: 40, Kind: KindPractice, Subject: "a"},
		{Day: time.Monday, Hour: 12, Minute: 40, Kind: KindLecture, Subject: "b"},
		{Day: time.Monday, Hour: 12, Minute: 41, Kind: KindLecture, Subject: "c"},
		{Day: time.Tuesday, Hour: 12, Minute: 40, Kind: KindLecture, Subject: "d"},
	}

	matched := catalog.At(time.Monday, 12, 40)
	if len(matched) != 2 {
		t.Fatalf("expected two entries at monday 12:40, got %d", len(matched))
	}
	if matched[0].Subject != "a" || matched[1].Subject != "b" {
		t.Fatalf("unexpected match order %v", matched)
	}

	if got := catalog.At(time.Wednesday, 12, 40); len(got) != 0 {
		t.Fatalf("expected no entries on an empty day, got %v", got)
	}
}

func TestEntry_EventID(t *testing.T) {
	t.Parallel()

	entry := Entry{Day: time.Monday, Hour: 9, Minute: 5, Kind: KindPractice, Subject: "Иностранный язык"}
	if got := entry.EventID(); got != "1_09:05_practice_Иностранный язык" {
		t.Fatalf("unexpected event id %q", got)
	}

	lecture := entry
	lecture.Kind = KindLecture
	if lecture.EventID() == entry.EventID() {
		t.Fatal("kind must distinguish event ids")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	catalog := Default()
	if len(catalog) != 20 {
		t.Fatalf("expected 20 scheduled entries, got %d", len(catalog))
	}

	ids := make(map[string]struct{}, len(catalog))
	for _, entry := range catalog {
		if entry.Day < time.Sunday || entry.Day > time.Saturday {
			t.Fatalf("invalid weekday in %v", entry)
		}
		if entry.Hour < 0 || entry.Hour > 23 || entry.Minute < 0 || entry.Minute > 59 {
			t.Fatalf("invalid start time in %v", entry)
		}
		if entry.Subject == "" {
			t.Fatalf("entry without subject: %v", entry)
		}
		id := entry.EventID()
		if _, dup := ids[id]; dup {
			t.Fatalf("duplicate event id %q", id)
		}
		ids[id] = struct{}{}
	}
}
