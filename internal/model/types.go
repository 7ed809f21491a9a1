package model

import "time"

// Gender values are stored in the estimator's vocabulary since they are
// echoed verbatim into prompts and history rows.
const (
	GenderMale   = "masculino"
	GenderFemale = "femenino"
	GenderOther  = "otro"
)

// Input modes for a logged meal.
const (
	ModeText  = "text"
	ModeImage = "image"
	ModeVoice = "voice"
	ModeMixed = "mixed"
)

type Profile struct {
	Name        string
	Gender      string
	DateOfBirth string
	HeightCm    float64
	WeightKg    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileHistoryEntry is one day's TDEE computation. At most one entry
// exists per EntryDate; writing again for the same date replaces it.
type ProfileHistoryEntry struct {
	ID           int64
	EntryDate    string
	Gender       string
	AgeYears     int
	HeightCm     float64
	WeightKg     float64
	BasalKcal    int
	ActivityText string
	ActivityKcal int
	TDEEKcal     int
	CreatedAt    time.Time
}

// Meal is immutable once created except for deletion. AIReport holds the
// estimator's raw output; numeric facts are re-derived from it on read.
type Meal struct {
	ID          int64
	LoggedAt    time.Time
	InputMode   string
	Description string
	ImageRef    string
	AIReport    string
	MealName    string
	CreatedAt   time.Time
}
