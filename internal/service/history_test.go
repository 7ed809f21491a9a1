package service_test

import (
	"testing"

	"github.com/rankflow/Nutrax/internal/service"
)

func historyInput(date string, tdee int) service.HistoryEntryInput {
	return service.HistoryEntryInput{
		EntryDate:    date,
		Gender:       "masculino",
		AgeYears:     30,
		HeightCm:     180,
		WeightKg:     80,
		BasalKcal:    1700,
		ActivityText: "camino 10k pasos",
		ActivityKcal: tdee - 1700,
		TDEEKcal:     tdee,
	}
}

func TestUpsertHistoryReplacesSameDate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.UpsertHistoryEntry(db, historyInput("2026-08-20", 2100)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := service.UpsertHistoryEntry(db, historyInput("2026-08-20", 2350)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entries, err := service.ListHistory(db)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry for the date, got %d", len(entries))
	}
	if entries[0].TDEEKcal != 2350 {
		t.Fatalf("expected second value 2350 to win, got %d", entries[0].TDEEKcal)
	}
}

func TestHistoryOrderAndLatest(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	latest, err := service.LatestHistoryEntry(db)
	if err != nil {
		t.Fatalf("latest on empty history: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil latest on empty history, got %+v", latest)
	}

	for _, c := range []struct {
		date string
		tdee int
	}{
		{"2026-08-10", 2000},
		{"2026-08-25", 2200},
		{"2026-08-18", 2100},
	} {
		if err := service.UpsertHistoryEntry(db, historyInput(c.date, c.tdee)); err != nil {
			t.Fatalf("upsert %s: %v", c.date, err)
		}
	}

	entries, err := service.ListHistory(db)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].EntryDate != "2026-08-25" || entries[2].EntryDate != "2026-08-10" {
		t.Fatalf("expected newest-first ordering, got %s .. %s", entries[0].EntryDate, entries[2].EntryDate)
	}

	latest, err = service.LatestHistoryEntry(db)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.TDEEKcal != 2200 {
		t.Fatalf("expected latest tdee 2200, got %+v", latest)
	}
}

func TestDeleteHistoryEntryIdempotent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.UpsertHistoryEntry(db, historyInput("2026-08-20", 2100)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := service.DeleteHistoryEntry(db, "2026-08-20"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := service.DeleteHistoryEntry(db, "2026-08-20"); err != nil {
		t.Fatalf("repeat delete should be a no-op: %v", err)
	}

	entries, err := service.ListHistory(db)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}
