package service

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/rankflow/Nutrax/internal/extract"
	"github.com/rankflow/Nutrax/internal/model"
)

// MealBreakdown is one meal's parsed contribution to a day section.
type MealBreakdown struct {
	MealID   int64
	Name     string
	Kcal     int
	ProteinG float64
	FatG     float64
	CarbsG   float64
}

// DaySection is one calendar day inside a week report. Empty days are
// present with zero totals so the report always carries 7 sections.
type DaySection struct {
	Date      string
	Label     string
	Meals     []model.Meal
	Breakdown []MealBreakdown
	TotalKcal int
	IsToday   bool
}

type WeekReport struct {
	FromDate  string
	ToDate    string
	Days      []DaySection
	TotalKcal int
}

// WeekWindow returns the 7 consecutive calendar dates of the week
// containing anchor, starting on Monday. With Sunday numbered 0 the
// shift back to Monday is -6 for Sunday and 1-day otherwise.
func WeekWindow(anchor time.Time) [7]time.Time {
	day := int(anchor.Weekday())
	shift := 1 - day
	if day == 0 {
		shift = -6
	}
	monday := beginningOfDay(anchor).AddDate(0, 0, shift)

	var window [7]time.Time
	for i := range window {
		window[i] = monday.AddDate(0, 0, i)
	}
	return window
}

// BuildWeekReport groups the week's meals into day buckets, derives
// per-meal and per-day totals from the stored reports, and rewrites
// the derived day-totals cache in full. now is only used to flag the
// current day's section for display.
func BuildWeekReport(db *sql.DB, anchor, now time.Time) (*WeekReport, error) {
	window := WeekWindow(anchor)

	meals, err := ListMeals(db, ListMealsFilter{
		FromDate: dayKey(window[0]),
		ToDate:   dayKey(window[6]),
	})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]model.Meal, 7)
	for _, m := range meals {
		key := dayKey(m.LoggedAt)
		buckets[key] = append(buckets[key], m)
	}

	report := &WeekReport{
		FromDate: dayKey(window[0]),
		ToDate:   dayKey(window[6]),
		Days:     make([]DaySection, 0, 7),
	}
	today := dayKey(now)
	for _, date := range window {
		key := dayKey(date)
		dayMeals := buckets[key]
		sort.SliceStable(dayMeals, func(i, j int) bool {
			return dayMeals[i].LoggedAt.Before(dayMeals[j].LoggedAt)
		})

		section := DaySection{
			Date:    key,
			Label:   date.Format("Mon 2006-01-02"),
			Meals:   dayMeals,
			IsToday: key == today,
		}
		for i, m := range dayMeals {
			name := m.MealName
			if name == "" {
				name = extract.MealName(m.AIReport, i)
			}
			macros := extract.Macros(m.AIReport)
			kcal := extract.TotalCalories(m.AIReport)
			section.Breakdown = append(section.Breakdown, MealBreakdown{
				MealID:   m.ID,
				Name:     name,
				Kcal:     kcal,
				ProteinG: macros.ProteinG,
				FatG:     macros.FatG,
				CarbsG:   macros.CarbsG,
			})
			section.TotalKcal += kcal
		}
		report.TotalKcal += section.TotalKcal
		report.Days = append(report.Days, section)
	}

	if err := rewriteDayTotalsCache(db, report.Days); err != nil {
		return nil, err
	}
	return report, nil
}

// rewriteDayTotalsCache replaces the derived date→kcal mapping with
// the freshly computed totals. The cache is never mutated
// incrementally; zero days are omitted.
func rewriteDayTotalsCache(db *sql.DB, days []DaySection) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache rewrite tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM day_totals_cache`); err != nil {
		return fmt.Errorf("clear day totals cache: %w", err)
	}
	for _, d := range days {
		if d.TotalKcal == 0 {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO day_totals_cache(date, calories) VALUES(?, ?)`, d.Date, d.TotalKcal); err != nil {
			return fmt.Errorf("cache day total for %s: %w", d.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache rewrite: %w", err)
	}
	return nil
}

// CachedDayTotal reads the derived cache. ok is false when the date has
// no cached total, which also covers zero-kcal days.
func CachedDayTotal(db *sql.DB, date string) (int, bool, error) {
	if _, err := parseDate(date); err != nil {
		return 0, false, err
	}
	var kcal int
	err := db.QueryRow(`SELECT calories FROM day_totals_cache WHERE date = ?`, date).Scan(&kcal)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read cached day total for %s: %w", date, err)
	}
	return kcal, true, nil
}

// DayTotal recomputes a day's kcal total from the meal log, the
// authoritative source.
func DayTotal(db *sql.DB, date string) (int, error) {
	meals, err := ListMeals(db, ListMealsFilter{Date: date})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, m := range meals {
		total += extract.TotalCalories(m.AIReport)
	}
	return total, nil
}
