package notify

import (
	"testing"
	"time"
)

func TestLedger_MarkIsOncePerEventAndDate(t *testing.T) {
	t.Parallel()

	ledger := NewLedger()

	if !ledger.Mark("1_12:40_practice_subj", "2026-09-07") {
		t.Fatal("first mark must record")
	}
	if ledger.Mark("1_12:40_practice_subj", "2026-09-07") {
		t.Fatal("second mark for the same pair must report already sent")
	}
	if !ledger.Mark("1_12:40_practice_subj", "2026-09-14") {
		t.Fatal("same event on another date is a new pair")
	}
	if !ledger.Mark("1_12:40_lecture_subj", "2026-09-07") {
		t.Fatal("different event on the same date is a new pair")
	}
}

func TestLedger_PruneKeepsTodayAndYesterday(t *testing.T) {
	t.Parallel()

	ledger := NewLedger()
	ledger.Mark("event", "2026-09-05")
	ledger.Mark("event", "2026-09-06")
	ledger.Mark("event", "2026-09-07")

	today := time.Date(2026, time.September, 7, 13, 0, 0, 0, time.UTC)
	if dropped := ledger.Prune(today); dropped != 1 {
		t.Fatalf("expected one record pruned, got %d", dropped)
	}

	if ledger.Contains("event", "2026-09-05") {
		t.Fatal("record older than yesterday must be pruned")
	}
	if !ledger.Contains("event", "2026-09-06") || !ledger.Contains("event", "2026-09-07") {
		t.Fatal("yesterday and today must survive pruning")
	}
}

func TestLedger_SnapshotRestore(t *testing.T) {
	t.Parallel()

	ledger := NewLedger()
	ledger.Mark("b", "2026-09-07")
	ledger.Mark("a", "2026-09-07")
	ledger.Mark("a", "2026-09-06")

	records := ledger.Snapshot()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Deterministic order: date, then event.
	if records[0].Date != "2026-09-06" || records[1].EventID != "a" || records[2].EventID != "b" {
		t.Fatalf("unexpected snapshot order: %v", records)
	}

	restored := NewLedger()
	restored.Restore(records)
	if restored.Mark("a", "2026-09-07") {
		t.Fatal("restored pair must still deduplicate")
	}
}
