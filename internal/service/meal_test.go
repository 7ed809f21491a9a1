package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rankflow/Nutrax/internal/model"
	"github.com/rankflow/Nutrax/internal/service"
)

const sampleReport = `Name: Ensalada de pollo
- Pechuga de pollo: 220 kcal
- Aguacate: 160 kcal
Calorías totales: 520
Proteínas: 42 g
Grasas: 28 g
Carbohidratos: 12 g`

func TestLogMealRoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	loggedAt := time.Date(2026, 8, 20, 13, 30, 0, 0, time.Local)
	id, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt:    loggedAt,
		InputMode:   model.ModeText,
		Description: "ensalada de pollo con aguacate",
		AIReport:    sampleReport,
	})
	if err != nil {
		t.Fatalf("log meal: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive meal id, got %d", id)
	}

	m, err := service.MealByID(db, id)
	if err != nil {
		t.Fatalf("meal by id: %v", err)
	}
	if m.AIReport != sampleReport {
		t.Fatalf("stored report differs from input:\n%s", m.AIReport)
	}
	if m.MealName != "Ensalada de pollo" {
		t.Fatalf("expected name from report, got %q", m.MealName)
	}
	if !m.LoggedAt.Equal(loggedAt) {
		t.Fatalf("expected logged_at %v, got %v", loggedAt, m.LoggedAt)
	}
}

func TestLogMealValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.LogMeal(db, service.LogMealInput{InputMode: "scan", AIReport: sampleReport}); err == nil {
		t.Fatalf("expected invalid mode error")
	}
	if _, err := service.LogMeal(db, service.LogMealInput{InputMode: model.ModeText, AIReport: "  "}); err == nil {
		t.Fatalf("expected missing report error")
	}
}

func TestMealFallbackNamesCountSameDay(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	nameless := "Calorías totales: 300"
	day := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)

	first, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: day, InputMode: model.ModeText, AIReport: nameless,
	})
	if err != nil {
		t.Fatalf("log first meal: %v", err)
	}
	second, err := service.LogMeal(db, service.LogMealInput{
		LoggedAt: day.Add(4 * time.Hour), InputMode: model.ModeText, AIReport: nameless,
	})
	if err != nil {
		t.Fatalf("log second meal: %v", err)
	}

	m1, err := service.MealByID(db, first)
	if err != nil {
		t.Fatalf("meal by id: %v", err)
	}
	m2, err := service.MealByID(db, second)
	if err != nil {
		t.Fatalf("meal by id: %v", err)
	}
	if m1.MealName != "Meal 1" || m2.MealName != "Meal 2" {
		t.Fatalf("expected positional names Meal 1/Meal 2, got %q/%q", m1.MealName, m2.MealName)
	}
}

func TestListMealsFiltersAndOrder(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	for _, ts := range []time.Time{
		time.Date(2026, 8, 18, 8, 0, 0, 0, time.Local),
		time.Date(2026, 8, 19, 13, 0, 0, 0, time.Local),
		time.Date(2026, 8, 19, 20, 0, 0, 0, time.Local),
	} {
		if _, err := service.LogMeal(db, service.LogMealInput{
			LoggedAt: ts, InputMode: model.ModeText, AIReport: sampleReport,
		}); err != nil {
			t.Fatalf("log meal at %v: %v", ts, err)
		}
	}

	all, err := service.ListMeals(db, service.ListMealsFilter{})
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(all))
	}
	if !all[0].LoggedAt.After(all[1].LoggedAt) {
		t.Fatalf("expected newest-first ordering")
	}

	day, err := service.ListMeals(db, service.ListMealsFilter{Date: "2026-08-19"})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(day) != 2 {
		t.Fatalf("expected 2 meals on 2026-08-19, got %d", len(day))
	}

	ranged, err := service.ListMeals(db, service.ListMealsFilter{FromDate: "2026-08-19", ToDate: "2026-08-19"})
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(ranged) != 2 {
		t.Fatalf("expected inclusive to-date to keep 2 meals, got %d", len(ranged))
	}
}

func TestDeleteAndClearMeals(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id, err := service.LogMeal(db, service.LogMealInput{InputMode: model.ModeText, AIReport: sampleReport})
	if err != nil {
		t.Fatalf("log meal: %v", err)
	}
	if err := service.DeleteMeal(db, id); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
	if err := service.DeleteMeal(db, id); err != nil {
		t.Fatalf("repeat delete should be a no-op: %v", err)
	}
	if _, err := service.MealByID(db, id); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := service.LogMeal(db, service.LogMealInput{InputMode: model.ModeText, AIReport: sampleReport}); err != nil {
			t.Fatalf("log meal: %v", err)
		}
	}
	if err := service.ClearMeals(db); err != nil {
		t.Fatalf("clear meals: %v", err)
	}
	left, err := service.ListMeals(db, service.ListMealsFilter{})
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected empty log after clear, got %d", len(left))
	}
}
