package nutrax

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "nutrax",
	Short: "nutrax tracks meals and energy expenditure from your terminal",
	Long:  "nutrax is a local-first nutrition tracking CLI: it logs meals from AI nutrition reports, keeps a daily TDEE history, and aggregates weekly intake.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Optional .env for NUTRAX_API_KEY during development.
	_ = godotenv.Load()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
