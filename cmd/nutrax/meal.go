package nutrax

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rankflow/Nutrax/internal/estimator"
	"github.com/rankflow/Nutrax/internal/model"
	"github.com/rankflow/Nutrax/internal/service"
	"github.com/spf13/cobra"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log and inspect meals",
}

var (
	mealText       string
	mealImagePath  string
	mealTranscript string
	mealDate       string
	mealTime       string
)

// estimateMeal resolves the input flags to a report via the external
// estimator. Exactly one input source must be set. A rejection reply is
// an error so callers never persist it.
func estimateMeal(ctx context.Context, client *estimator.Client) (report, mode, description, imageRef string, err error) {
	sources := 0
	for _, s := range []string{mealText, mealImagePath, mealTranscript} {
		if strings.TrimSpace(s) != "" {
			sources++
		}
	}
	if sources != 1 {
		return "", "", "", "", fmt.Errorf("set exactly one of --text, --image, --transcript")
	}

	switch {
	case strings.TrimSpace(mealText) != "":
		mode = model.ModeText
		description = strings.TrimSpace(mealText)
		report, err = client.MealFromText(ctx, mealText)
	case strings.TrimSpace(mealTranscript) != "":
		mode = model.ModeVoice
		description = strings.TrimSpace(mealTranscript)
		report, err = client.MealFromTranscript(ctx, mealTranscript)
	default:
		mode = model.ModeImage
		imageRef = strings.TrimSpace(mealImagePath)
		var raw []byte
		raw, err = os.ReadFile(imageRef)
		if err != nil {
			return "", "", "", "", fmt.Errorf("read meal image: %w", err)
		}
		report, err = client.MealFromImage(ctx, base64.StdEncoding.EncodeToString(raw))
	}
	if err != nil {
		return "", "", "", "", err
	}
	if estimator.IsRejection(report) {
		return "", "", "", "", fmt.Errorf("the estimator could not analyze this meal; retry with a clearer description or photo")
	}
	return report, mode, description, imageRef, nil
}

var mealAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate a meal without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			client, err := estimatorClient(sqldb)
			if err != nil {
				return err
			}
			report, _, _, _, err := estimateMeal(cmd.Context(), client)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

var mealLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Estimate a meal and append it to the log",
	RunE: func(cmd *cobra.Command, args []string) error {
		loggedAt, err := parseMealTimestamp(mealDate, mealTime)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			client, err := estimatorClient(sqldb)
			if err != nil {
				return err
			}
			report, mode, description, imageRef, err := estimateMeal(cmd.Context(), client)
			if err != nil {
				return err
			}
			id, err := service.LogMeal(sqldb, service.LogMealInput{
				LoggedAt:    loggedAt,
				InputMode:   mode,
				Description: description,
				ImageRef:    imageRef,
				AIReport:    report,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged meal %d\n\n%s\n", id, report)
			return nil
		})
	},
}

var (
	mealListDate string
	mealFrom     string
	mealTo       string
	mealLimit    int
)

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged meals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListMealsFilter{Date: mealListDate, FromDate: mealFrom, ToDate: mealTo, Limit: mealLimit}
		return withDB(func(sqldb *sql.DB) error {
			meals, err := service.ListMeals(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tLOGGED_AT\tMODE\tNAME")
			for _, m := range meals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n",
					m.ID, m.LoggedAt.Local().Format("2006-01-02 15:04"), m.InputMode, m.MealName)
			}
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a meal's stored nutrition report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			m, err := service.MealByID(sqldb, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Meal %d (%s, %s)\n", m.ID, m.MealName, m.LoggedAt.Local().Format("2006-01-02 15:04"))
			if m.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Input: %s\n", m.Description)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", m.AIReport)
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("meal id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMeal(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %d\n", id)
			return nil
		})
	},
}

var mealClearYes bool

var mealClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every logged meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mealClearYes {
			return fmt.Errorf("clearing the meal log is irreversible; pass --yes to confirm")
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ClearMeals(sqldb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared meal log")
			return nil
		})
	},
}

func parseMealTimestamp(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Now(), nil
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("--date is required when --time is set")
	}
	if timeStr == "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealLogCmd, mealAnalyzeCmd, mealListCmd, mealShowCmd, mealDeleteCmd, mealClearCmd)

	for _, c := range []*cobra.Command{mealLogCmd, mealAnalyzeCmd} {
		c.Flags().StringVar(&mealText, "text", "", "Meal description")
		c.Flags().StringVar(&mealImagePath, "image", "", "Path to a JPEG photo of the meal")
		c.Flags().StringVar(&mealTranscript, "transcript", "", "Transcript of a dictated meal note")
	}
	mealLogCmd.Flags().StringVar(&mealDate, "date", "", "Date YYYY-MM-DD (default today)")
	mealLogCmd.Flags().StringVar(&mealTime, "time", "", "Time HH:MM")

	mealListCmd.Flags().StringVar(&mealListDate, "date", "", "Filter by date YYYY-MM-DD")
	mealListCmd.Flags().StringVar(&mealFrom, "from", "", "Filter from date YYYY-MM-DD")
	mealListCmd.Flags().StringVar(&mealTo, "to", "", "Filter to date YYYY-MM-DD")
	mealListCmd.Flags().IntVar(&mealLimit, "limit", 50, "Result limit")

	mealClearCmd.Flags().BoolVar(&mealClearYes, "yes", false, "Confirm clearing the log")
}
