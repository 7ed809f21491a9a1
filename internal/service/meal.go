package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rankflow/Nutrax/internal/extract"
	"github.com/rankflow/Nutrax/internal/model"
)

type LogMealInput struct {
	LoggedAt    time.Time
	InputMode   string
	Description string
	ImageRef    string
	AIReport    string
}

type ListMealsFilter struct {
	Date     string
	FromDate string
	ToDate   string
	Limit    int
}

var validModes = map[string]bool{
	model.ModeText:  true,
	model.ModeImage: true,
	model.ModeVoice: true,
	model.ModeMixed: true,
}

// LogMeal appends a meal record. The display name is derived from the
// report at save time, with a positional fallback so every meal shows
// a name even when the estimator omits one. Records are immutable once
// created except for deletion.
func LogMeal(db *sql.DB, in LogMealInput) (int64, error) {
	if !validModes[in.InputMode] {
		return 0, fmt.Errorf("invalid input mode %q", in.InputMode)
	}
	if strings.TrimSpace(in.AIReport) == "" {
		return 0, fmt.Errorf("meal report is required")
	}
	if in.LoggedAt.IsZero() {
		in.LoggedAt = time.Now()
	}

	var sameDay int
	start := beginningOfDay(in.LoggedAt)
	err := db.QueryRow(`SELECT COUNT(*) FROM meals WHERE logged_at >= ? AND logged_at < ?`,
		start.Format(time.RFC3339), start.Add(24*time.Hour).Format(time.RFC3339)).Scan(&sameDay)
	if err != nil {
		return 0, fmt.Errorf("count meals for day: %w", err)
	}
	name := extract.MealName(in.AIReport, sameDay)

	res, err := db.Exec(`
INSERT INTO meals(logged_at, input_mode, description, image_ref, ai_report, meal_name)
VALUES(?, ?, ?, ?, ?, ?)
`, in.LoggedAt.Format(time.RFC3339), in.InputMode, strings.TrimSpace(in.Description),
		strings.TrimSpace(in.ImageRef), in.AIReport, name)
	if err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted meal id: %w", err)
	}
	emit(EventMealsChanged)
	return id, nil
}

// ListMeals returns meals newest first, optionally filtered to a date
// or range.
func ListMeals(db *sql.DB, f ListMealsFilter) ([]model.Meal, error) {
	query := `
SELECT id, logged_at, input_mode, description, image_ref, ai_report, meal_name, created_at
FROM meals
WHERE 1=1`
	args := make([]any, 0)

	if strings.TrimSpace(f.Date) != "" {
		day, err := parseDate(f.Date)
		if err != nil {
			return nil, err
		}
		query += ` AND logged_at >= ? AND logged_at < ?`
		args = append(args, day.Format(time.RFC3339), day.Add(24*time.Hour).Format(time.RFC3339))
	}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDate(f.FromDate)
		if err != nil {
			return nil, err
		}
		query += ` AND logged_at >= ?`
		args = append(args, from.Format(time.RFC3339))
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDate(f.ToDate)
		if err != nil {
			return nil, err
		}
		query += ` AND logged_at < ?`
		args = append(args, to.Add(24*time.Hour).Format(time.RFC3339))
	}
	query += ` ORDER BY logged_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows.Scan)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

func MealByID(db *sql.DB, id int64) (*model.Meal, error) {
	if id <= 0 {
		return nil, fmt.Errorf("meal id must be > 0")
	}
	row := db.QueryRow(`
SELECT id, logged_at, input_mode, description, image_ref, ai_report, meal_name, created_at
FROM meals WHERE id = ?
`, id)
	m, err := scanMeal(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("meal %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMeal removes a record by id. Deleting an absent id is not an
// error.
func DeleteMeal(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("meal id must be > 0")
	}
	if _, err := db.Exec(`DELETE FROM meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete meal %d: %w", id, err)
	}
	emit(EventMealsChanged)
	return nil
}

// ClearMeals empties the whole log. Irreversible; callers confirm
// before invoking.
func ClearMeals(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM meals`); err != nil {
		return fmt.Errorf("clear meals: %w", err)
	}
	emit(EventMealsChanged)
	return nil
}

func scanMeal(scan func(...any) error) (model.Meal, error) {
	var m model.Meal
	var loggedAtRaw, createdAtRaw string
	err := scan(&m.ID, &loggedAtRaw, &m.InputMode, &m.Description, &m.ImageRef, &m.AIReport, &m.MealName, &createdAtRaw)
	if err == sql.ErrNoRows {
		return m, err
	}
	if err != nil {
		return m, fmt.Errorf("scan meal: %w", err)
	}
	m.LoggedAt, err = time.Parse(time.RFC3339, loggedAtRaw)
	if err != nil {
		return m, fmt.Errorf("parse logged_at for meal %d: %w", m.ID, err)
	}
	m.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAtRaw)
	return m, nil
}
