package service

import (
	"database/sql"
	"time"
)

type TodayStatus struct {
	Date         string
	ConsumedKcal int
	TDEEKcal     int
	DeficitKcal  int
	HasTDEE      bool
}

// TodaySummary derives the dashboard numbers: kcal consumed today from
// the meal log and the deficit against the most recent TDEE snapshot.
// Without a history entry only consumption is reported.
func TodaySummary(db *sql.DB, now time.Time) (*TodayStatus, error) {
	status := &TodayStatus{Date: dayKey(now)}

	consumed, err := DayTotal(db, status.Date)
	if err != nil {
		return nil, err
	}
	status.ConsumedKcal = consumed

	latest, err := LatestHistoryEntry(db)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		status.HasTDEE = true
		status.TDEEKcal = latest.TDEEKcal
		status.DeficitKcal = latest.TDEEKcal - consumed
	}
	return status, nil
}
