package optilife

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the active user",
}

var userSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Make <id> the active user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetActiveUser(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active user: %s\n", args[0])
			return nil
		})
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the user commands act on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			id := s.tracker.UserID()
			if id == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No active user")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User: %s\n", id)
			if first, ok := s.tracker.FirstActivity(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Tracking since: %s\n", first.Format("2006-01-02"))
			}
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			users, err := storage.Users(s.store)
			if err != nil {
				return err
			}
			current := s.tracker.UserID()
			for _, u := range users {
				marker := " "
				if u == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, u)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSwitchCmd, userShowCmd, userListCmd)
}
