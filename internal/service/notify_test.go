package service_test

import (
	"sync/atomic"
	"testing"

	"github.com/rankflow/Nutrax/internal/model"
	"github.com/rankflow/Nutrax/internal/service"
)

// The bus is package-global, so parallel tests may also emit; assertions
// are at-least-once.
func TestChangeNotifications(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	var meals, profiles atomic.Int64
	service.OnChange(service.EventMealsChanged, func() { meals.Add(1) })
	service.OnChange(service.EventProfileChanged, func() { profiles.Add(1) })

	if _, err := service.LogMeal(db, service.LogMealInput{
		InputMode: model.ModeText, AIReport: "Calorías totales: 100",
	}); err != nil {
		t.Fatalf("log meal: %v", err)
	}
	if meals.Load() == 0 {
		t.Fatalf("expected meal change notification")
	}

	if err := service.CreateProfile(db, service.CreateProfileInput{
		Name: "Ana", Gender: "femenino", DateOfBirth: "1992-03-10", HeightCm: 168, WeightKg: 62,
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if profiles.Load() == 0 {
		t.Fatalf("expected profile change notification")
	}
}
