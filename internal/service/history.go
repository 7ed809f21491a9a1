package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rankflow/Nutrax/internal/model"
)

type HistoryEntryInput struct {
	EntryDate    string
	Gender       string
	AgeYears     int
	HeightCm     float64
	WeightKg     float64
	BasalKcal    int
	ActivityText string
	ActivityKcal int
	TDEEKcal     int
}

// UpsertHistoryEntry writes the day's TDEE snapshot. The UNIQUE
// constraint on entry_date keeps at most one entry per calendar date;
// a second write for the same date replaces the first.
func UpsertHistoryEntry(db *sql.DB, in HistoryEntryInput) error {
	if _, err := parseDate(in.EntryDate); err != nil {
		return err
	}
	if err := validateNonNegativeInt("basal kcal", in.BasalKcal); err != nil {
		return err
	}
	if err := validateNonNegativeInt("activity kcal", in.ActivityKcal); err != nil {
		return err
	}
	if err := validateNonNegativeInt("tdee kcal", in.TDEEKcal); err != nil {
		return err
	}
	if err := validatePositiveFloat("height", in.HeightCm); err != nil {
		return err
	}
	if err := validatePositiveFloat("weight", in.WeightKg); err != nil {
		return err
	}

	_, err := db.Exec(`
INSERT INTO profile_history(entry_date, gender, age_years, height_cm, weight_kg, basal_kcal, activity_text, activity_kcal, tdee_kcal)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(entry_date) DO UPDATE SET
  gender = excluded.gender,
  age_years = excluded.age_years,
  height_cm = excluded.height_cm,
  weight_kg = excluded.weight_kg,
  basal_kcal = excluded.basal_kcal,
  activity_text = excluded.activity_text,
  activity_kcal = excluded.activity_kcal,
  tdee_kcal = excluded.tdee_kcal
`, strings.TrimSpace(in.EntryDate), in.Gender, in.AgeYears, in.HeightCm, in.WeightKg,
		in.BasalKcal, strings.TrimSpace(in.ActivityText), in.ActivityKcal, in.TDEEKcal)
	if err != nil {
		return fmt.Errorf("upsert history entry for %s: %w", in.EntryDate, err)
	}
	emit(EventProfileChanged)
	return nil
}

// ListHistory returns all snapshots, newest entry date first.
func ListHistory(db *sql.DB) ([]model.ProfileHistoryEntry, error) {
	rows, err := db.Query(`
SELECT id, entry_date, gender, age_years, height_cm, weight_kg, basal_kcal, activity_text, activity_kcal, tdee_kcal, created_at
FROM profile_history
ORDER BY entry_date DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.ProfileHistoryEntry, 0)
	for rows.Next() {
		e, err := scanHistoryEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// LatestHistoryEntry returns the most recent snapshot, or nil when the
// history is empty. Its TDEEKcal is the "current TDEE" shown on the
// dashboard.
func LatestHistoryEntry(db *sql.DB) (*model.ProfileHistoryEntry, error) {
	row := db.QueryRow(`
SELECT id, entry_date, gender, age_years, height_cm, weight_kg, basal_kcal, activity_text, activity_kcal, tdee_kcal, created_at
FROM profile_history
ORDER BY entry_date DESC
LIMIT 1
`)
	e, err := scanHistoryEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteHistoryEntry removes the snapshot for a date. Deleting an
// absent date is not an error.
func DeleteHistoryEntry(db *sql.DB, entryDate string) error {
	if _, err := parseDate(entryDate); err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM profile_history WHERE entry_date = ?`, strings.TrimSpace(entryDate)); err != nil {
		return fmt.Errorf("delete history entry %s: %w", entryDate, err)
	}
	emit(EventProfileChanged)
	return nil
}

func scanHistoryEntry(scan func(...any) error) (model.ProfileHistoryEntry, error) {
	var e model.ProfileHistoryEntry
	var createdAtRaw string
	err := scan(&e.ID, &e.EntryDate, &e.Gender, &e.AgeYears, &e.HeightCm, &e.WeightKg,
		&e.BasalKcal, &e.ActivityText, &e.ActivityKcal, &e.TDEEKcal, &createdAtRaw)
	if err == sql.ErrNoRows {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("scan history entry: %w", err)
	}
	e.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAtRaw)
	return e, nil
}
