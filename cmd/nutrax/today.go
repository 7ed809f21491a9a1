package nutrax

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rankflow/Nutrax/internal/service"
	"github.com/spf13/cobra"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's intake and deficit against your TDEE",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := time.Now()
		if todayDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", todayDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", todayDate)
			}
			target = parsed
		}
		return withDB(func(sqldb *sql.DB) error {
			status, err := service.TodaySummary(sqldb, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", status.Date)
			fmt.Fprintf(cmd.OutOrStdout(), "Consumed: %d kcal\n", status.ConsumedKcal)
			if status.HasTDEE {
				fmt.Fprintf(cmd.OutOrStdout(), "TDEE: %d kcal\n", status.TDEEKcal)
				fmt.Fprintf(cmd.OutOrStdout(), "Deficit: %d kcal\n", status.DeficitKcal)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "TDEE: not estimated yet (run: nutrax profile estimate)")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
}
