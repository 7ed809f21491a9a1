package service_test

import (
	"testing"
	"time"

	"github.com/rankflow/Nutrax/internal/model"
	"github.com/rankflow/Nutrax/internal/service"
)

func TestWeekWindowStartsMonday(t *testing.T) {
	t.Parallel()

	// 2026-08-26 is a Wednesday; its week runs Mon 24th through Sun 30th.
	anchor := time.Date(2026, 8, 26, 15, 0, 0, 0, time.Local)
	window := service.WeekWindow(anchor)

	if got := window[0].Format("2006-01-02"); got != "2026-08-24" {
		t.Fatalf("expected window to open on Monday 2026-08-24, got %s", got)
	}
	if window[0].Weekday() != time.Monday {
		t.Fatalf("expected Monday start, got %v", window[0].Weekday())
	}
	for i := 1; i < 7; i++ {
		if !window[i].Equal(window[i-1].AddDate(0, 0, 1)) {
			t.Fatalf("window dates not consecutive at index %d", i)
		}
	}
	if got := window[6].Format("2006-01-02"); got != "2026-08-30" {
		t.Fatalf("expected window to close on Sunday 2026-08-30, got %s", got)
	}
}

func TestWeekWindowSameForWholeWeek(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	want := service.WeekWindow(monday)
	for offset := 1; offset < 7; offset++ {
		got := service.WeekWindow(monday.AddDate(0, 0, offset))
		if !got[0].Equal(want[0]) || !got[6].Equal(want[6]) {
			t.Fatalf("anchor offset %d produced a different window: %v", offset, got[0])
		}
	}
}

func TestWeekWindowSundayAnchor(t *testing.T) {
	t.Parallel()

	sunday := time.Date(2026, 8, 30, 22, 0, 0, 0, time.Local)
	window := service.WeekWindow(sunday)
	if got := window[0].Format("2006-01-02"); got != "2026-08-24" {
		t.Fatalf("Sunday anchor should fold back to Monday 2026-08-24, got %s", got)
	}
}

func TestBuildWeekReport(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	report300 := "Name: Avena con fruta\nCalorías totales: 300"
	report500 := "Name: Pasta con atún\nCalorías totales: 500"

	monday := time.Date(2026, 8, 24, 8, 30, 0, 0, time.Local)
	wednesday := time.Date(2026, 8, 26, 14, 0, 0, 0, time.Local)
	if _, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: monday, InputMode: model.ModeText, AIReport: report300,
	}); err != nil {
		t.Fatalf("log monday meal: %v", err)
	}
	if _, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: wednesday, InputMode: model.ModeImage, AIReport: report500,
	}); err != nil {
		t.Fatalf("log wednesday meal: %v", err)
	}
	// Outside the window, must not leak in.
	if _, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: monday.AddDate(0, 0, -3), InputMode: model.ModeText, AIReport: report500,
	}); err != nil {
		t.Fatalf("log prior-week meal: %v", err)
	}

	report, err := service.BuildWeekReport(db, wednesday, wednesday)
	if err != nil {
		t.Fatalf("build week report: %v", err)
	}
	if report.FromDate != "2026-08-24" || report.ToDate != "2026-08-30" {
		t.Fatalf("unexpected window %s..%s", report.FromDate, report.ToDate)
	}
	if len(report.Days) != 7 {
		t.Fatalf("expected 7 day sections, got %d", len(report.Days))
	}
	if report.TotalKcal != 800 {
		t.Fatalf("expected weekly total 800, got %d", report.TotalKcal)
	}
	if report.Days[0].TotalKcal != 300 {
		t.Fatalf("expected Monday total 300, got %d", report.Days[0].TotalKcal)
	}
	if report.Days[2].TotalKcal != 500 {
		t.Fatalf("expected Wednesday total 500, got %d", report.Days[2].TotalKcal)
	}
	if !report.Days[2].IsToday {
		t.Fatalf("expected Wednesday flagged as today")
	}
	if report.Days[1].TotalKcal != 0 || len(report.Days[1].Meals) != 0 {
		t.Fatalf("expected empty Tuesday section, got %+v", report.Days[1])
	}
	if len(report.Days[2].Breakdown) != 1 || report.Days[2].Breakdown[0].Name != "Pasta con atún" {
		t.Fatalf("unexpected Wednesday breakdown %+v", report.Days[2].Breakdown)
	}
}

func TestDayTotalsCacheRewrittenInFull(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	monday := time.Date(2026, 8, 24, 8, 30, 0, 0, time.Local)
	wednesday := time.Date(2026, 8, 26, 14, 0, 0, 0, time.Local)
	mondayID, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: monday, InputMode: model.ModeText, AIReport: "Calorías totales: 300",
	})
	if err != nil {
		t.Fatalf("log monday meal: %v", err)
	}
	if _, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: wednesday, InputMode: model.ModeText, AIReport: "Calorías totales: 500",
	}); err != nil {
		t.Fatalf("log wednesday meal: %v", err)
	}

	if _, err := service.BuildWeekReport(db, wednesday, wednesday); err != nil {
		t.Fatalf("build week report: %v", err)
	}

	kcal, ok, err := service.CachedDayTotal(db, "2026-08-24")
	if err != nil || !ok || kcal != 300 {
		t.Fatalf("expected cached 300 for Monday, got %d ok=%v err=%v", kcal, ok, err)
	}
	kcal, ok, err = service.CachedDayTotal(db, "2026-08-26")
	if err != nil || !ok || kcal != 500 {
		t.Fatalf("expected cached 500 for Wednesday, got %d ok=%v err=%v", kcal, ok, err)
	}
	if _, ok, err := service.CachedDayTotal(db, "2026-08-25"); err != nil || ok {
		t.Fatalf("zero-kcal day must not be cached, ok=%v err=%v", ok, err)
	}

	// Deleting the Monday meal and re-aggregating drops its row.
	if err := service.DeleteMeal(db, mondayID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if _, err := service.BuildWeekReport(db, wednesday, wednesday); err != nil {
		t.Fatalf("rebuild week report: %v", err)
	}
	if _, ok, err := service.CachedDayTotal(db, "2026-08-24"); err != nil || ok {
		t.Fatalf("expected Monday total evicted after rewrite, ok=%v err=%v", ok, err)
	}
}

func TestDayTotalRecomputesFromLog(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	for _, kcal := range []string{"Calorías totales: 420", "Calorías totales: 615"} {
		if _, err := service.LogMeal(db, service.LogMealInput{
			LoggedAt: day, InputMode: model.ModeText, AIReport: kcal,
		}); err != nil {
			t.Fatalf("log meal: %v", err)
		}
		day = day.Add(3 * time.Hour)
	}

	total, err := service.DayTotal(db, "2026-08-27")
	if err != nil {
		t.Fatalf("day total: %v", err)
	}
	if total != 1035 {
		t.Fatalf("expected 1035, got %d", total)
	}
}
