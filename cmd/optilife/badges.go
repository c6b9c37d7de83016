package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show achievements",
}

var badgesAll bool

var badgesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List earned badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			earned := map[string]bool{}
			for _, id := range s.tracker.EarnedBadges() {
				earned[id] = true
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTITLE\tEARNED\tDESCRIPTION")
			for _, r := range badge.Catalog {
				if !badgesAll && !earned[r.ID] {
					continue
				}
				mark := "no"
				if earned[r.ID] {
					mark = "yes"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", r.ID, r.Title, mark, r.Description)
			}
			return nil
		})
	},
}

var badgesPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List badge notifications not yet dismissed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			pending := s.tracker.PendingBadges()
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending badges")
				return nil
			}
			printBadges(cmd.OutOrStdout(), "Pending", pending)
			return nil
		})
	},
}

var badgesDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss the oldest pending badge",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			id, ok, err := t.DismissBadge()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending badges")
				return nil
			}
			printBadges(cmd.OutOrStdout(), "Dismissed", []string{id})
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(badgesCmd)
	badgesCmd.AddCommand(badgesListCmd, badgesPendingCmd, badgesDismissCmd)

	badgesListCmd.Flags().BoolVar(&badgesAll, "all", false, "Include badges not yet earned")
}
