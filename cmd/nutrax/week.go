package nutrax

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rankflow/Nutrax/internal/service"
	"github.com/spf13/cobra"
)

var weekDate string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the week's meals grouped by day",
	Long:  "Shows the Monday-to-Sunday week containing the anchor date, one section per day with per-meal calories and macros. Empty days appear with a zero total.",
	RunE: func(cmd *cobra.Command, args []string) error {
		anchor, err := parseDateOrNow(weekDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.BuildWeekReport(sqldb, anchor, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Week %s .. %s\n", report.FromDate, report.ToDate)
			for _, day := range report.Days {
				marker := ""
				if day.IsToday {
					marker = "  <- today"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s  %d kcal%s\n", day.Label, day.TotalKcal, marker)
				for _, item := range day.Breakdown {
					fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %s: %d kcal (P %.1fg | F %.1fg | C %.1fg)\n",
						item.MealID, item.Name, item.Kcal, item.ProteinG, item.FatG, item.CarbsG)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWeek total: %d kcal\n", report.TotalKcal)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
	weekCmd.Flags().StringVar(&weekDate, "date", "", "Anchor date YYYY-MM-DD (default today)")
}
