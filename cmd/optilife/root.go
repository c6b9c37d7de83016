package optilife

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	userID     string
)

var rootCmd = &cobra.Command{
	Use:           "optilife",
	Short:         "optilife tracks water, food, activity, fasting, sleep, and weight",
	Long:          "optilife is a local-first health tracker with goals, charts, badges, and AI insights.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "User id (overrides the active user)")
}
