package nutrax

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rankflow/Nutrax/internal/app"
	"github.com/rankflow/Nutrax/internal/db"
	"github.com/rankflow/Nutrax/internal/estimator"
	"github.com/rankflow/Nutrax/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}

	// Keep the derived day-totals cache in step with the meal log: any
	// mutation re-aggregates the current week. Best effort; the cache is
	// rebuilt on the next week report anyway.
	service.OnChange(service.EventMealsChanged, func() {
		now := time.Now()
		_, _ = service.BuildWeekReport(sqldb, now, now)
	})

	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

// estimatorClient builds the external estimator from the environment,
// with model and endpoint overrides from local config.
func estimatorClient(sqldb *sql.DB) (*estimator.Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("NUTRAX_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing estimator API key; set NUTRAX_API_KEY")
	}
	client := &estimator.Client{APIKey: apiKey}
	if model, ok, err := service.GetConfig(sqldb, service.ConfigEstimatorModel); err != nil {
		return nil, err
	} else if ok {
		client.Model = model
	}
	if baseURL, ok, err := service.GetConfig(sqldb, service.ConfigEstimatorBaseURL); err != nil {
		return nil, err
	} else if ok {
		client.BaseURL = baseURL
	}
	return client, nil
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDateOrNow(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return t, nil
}
