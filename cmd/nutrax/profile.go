package nutrax

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rankflow/Nutrax/internal/energy"
	"github.com/rankflow/Nutrax/internal/estimator"
	"github.com/rankflow/Nutrax/internal/service"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile and TDEE history",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetProfile(sqldb)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no profile exists yet; run: nutrax init")
			}
			dob, err := energy.ParseDateOfBirth(p.DateOfBirth)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\n", p.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Gender: %s\n", p.Gender)
			fmt.Fprintf(cmd.OutOrStdout(), "Date of birth: %s (age %d)\n", p.DateOfBirth, energy.Age(dob, time.Now()))
			fmt.Fprintf(cmd.OutOrStdout(), "Height: %.1f cm\n", p.HeightCm)
			fmt.Fprintf(cmd.OutOrStdout(), "Weight: %.1f kg\n", p.WeightKg)
			return nil
		})
	},
}

var (
	profileHeight float64
	profileWeight float64
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update height and weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateBiometrics(sqldb, profileHeight, profileWeight); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated biometrics: %.1f cm, %.1f kg\n", profileHeight, profileWeight)
			return nil
		})
	},
}

var (
	estimateActivity string
	estimateDate     string
	estimateOffline  bool
)

var profileEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate TDEE and record it in the daily history",
	Long:  "Asks the external estimator for basal metabolism, activity expenditure, and TDEE, then stores the result as the day's history entry. A second estimate on the same date replaces the first. Nothing is stored when the estimate fails.",
	RunE: func(cmd *cobra.Command, args []string) error {
		entryDate, err := parseDateOrNow(estimateDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetProfile(sqldb)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no profile exists yet; run: nutrax init")
			}
			dob, err := energy.ParseDateOfBirth(p.DateOfBirth)
			if err != nil {
				return err
			}
			age := energy.Age(dob, entryDate)

			var basal, activityKcal, tdee int
			var detail string
			if estimateOffline {
				basal, activityKcal, tdee = energy.OfflineEstimate(p.Gender, age, p.HeightCm, p.WeightKg, estimateActivity)
				detail = "offline Harris-Benedict estimate"
			} else {
				client, err := estimatorClient(sqldb)
				if err != nil {
					return err
				}
				est, err := client.EstimateTDEE(cmd.Context(), estimator.TDEEInput{
					Gender:   p.Gender,
					AgeYears: age,
					HeightCm: p.HeightCm,
					WeightKg: p.WeightKg,
					Activity: estimateActivity,
				})
				if err != nil {
					return err
				}
				basal, activityKcal, tdee = est.BasalKcal, est.ActivityKcal, est.TDEEKcal
				detail = est.Detail
			}

			if err := service.UpsertHistoryEntry(sqldb, service.HistoryEntryInput{
				EntryDate:    entryDate.Format("2006-01-02"),
				Gender:       p.Gender,
				AgeYears:     age,
				HeightCm:     p.HeightCm,
				WeightKg:     p.WeightKg,
				BasalKcal:    basal,
				ActivityText: estimateActivity,
				ActivityKcal: activityKcal,
				TDEEKcal:     tdee,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", entryDate.Format("2006-01-02"))
			fmt.Fprintf(cmd.OutOrStdout(), "Basal: %d kcal\n", basal)
			fmt.Fprintf(cmd.OutOrStdout(), "Activity: %d kcal\n", activityKcal)
			fmt.Fprintf(cmd.OutOrStdout(), "TDEE: %d kcal\n", tdee)
			if detail != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Detail: %s\n", detail)
			}
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage TDEE history entries",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List TDEE history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			entries, err := service.ListHistory(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tBASAL\tACTIVITY\tTDEE\tWEIGHT\tACTIVITY_TEXT")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\t%d\t%.1f\t%s\n",
					e.EntryDate, e.BasalKcal, e.ActivityKcal, e.TDEEKcal, e.WeightKg, e.ActivityText)
			}
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the history entry for a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteHistoryEntry(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted history entry %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profileEstimateCmd, historyCmd)
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd)

	profileUpdateCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in cm")
	profileUpdateCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight in kg")
	_ = profileUpdateCmd.MarkFlagRequired("height")
	_ = profileUpdateCmd.MarkFlagRequired("weight")

	profileEstimateCmd.Flags().StringVar(&estimateActivity, "activity", "", "Habitual activity description, e.g. \"pesas 3 veces y camino 10k pasos\"")
	profileEstimateCmd.Flags().StringVar(&estimateDate, "date", "", "Entry date YYYY-MM-DD (default today)")
	profileEstimateCmd.Flags().BoolVar(&estimateOffline, "offline", false, "Use the local formula instead of the external estimator")
	_ = profileEstimateCmd.MarkFlagRequired("activity")
}
