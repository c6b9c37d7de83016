package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage activity logs",
}

var (
	activityName     string
	activityMinutes  int
	activityCalories int
)

var activityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log an activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.ActivityInput{
			ActivityName:    activityName,
			DurationMinutes: activityMinutes,
			CaloriesBurned:  activityCalories,
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			entry, err := t.AddActivity(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity %s (%s, %d min)\n", entry.ID, entry.ActivityName, entry.DurationMinutes)
			return nil
		})
	},
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activity logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tACTIVITY\tDURATION_MIN\tKCAL_BURNED")
			for _, e := range s.tracker.Activities() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%d\n", e.ID, formatTimestamp(e.Timestamp), e.ActivityName, e.DurationMinutes, e.CaloriesBurned)
			}
			return nil
		})
	},
}

var activityDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args)
		if err != nil {
			return err
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			if err := t.DeleteActivity(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted activity %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.AddCommand(activityAddCmd, activityListCmd, activityDeleteCmd)

	activityAddCmd.Flags().StringVar(&activityName, "name", "", "Activity name")
	activityAddCmd.Flags().IntVar(&activityMinutes, "minutes", 0, "Duration in minutes")
	activityAddCmd.Flags().IntVar(&activityCalories, "calories", 0, "Calories burned")
	_ = activityAddCmd.MarkFlagRequired("name")
	_ = activityAddCmd.MarkFlagRequired("minutes")
}
