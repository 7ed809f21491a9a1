package nutrax

import (
	"database/sql"
	"fmt"

	"github.com/rankflow/Nutrax/internal/service"
	"github.com/spf13/cobra"
)

var (
	initName   string
	initGender string
	initDOB    string
	initHeight float64
	initWeight float64
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database and create your profile",
	Long:  "Creates the local nutrax database and the one-per-installation profile. Name, gender, and date of birth are fixed after onboarding; only height and weight can change later.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.CreateProfile(sqldb, service.CreateProfileInput{
				Name:        initName,
				Gender:      initGender,
				DateOfBirth: initDOB,
				HeightCm:    initHeight,
				WeightKg:    initWeight,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. Profile created.\n", initName)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initName, "name", "", "Your name")
	initCmd.Flags().StringVar(&initGender, "gender", "", "Gender: masculino, femenino, or otro")
	initCmd.Flags().StringVar(&initDOB, "dob", "", "Date of birth YYYY-MM-DD")
	initCmd.Flags().Float64Var(&initHeight, "height", 0, "Height in cm")
	initCmd.Flags().Float64Var(&initWeight, "weight", 0, "Weight in kg")
	_ = initCmd.MarkFlagRequired("name")
	_ = initCmd.MarkFlagRequired("gender")
	_ = initCmd.MarkFlagRequired("dob")
	_ = initCmd.MarkFlagRequired("height")
	_ = initCmd.MarkFlagRequired("weight")
}
