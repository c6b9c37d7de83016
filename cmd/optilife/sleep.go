package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Manage sleep logs",
}

var (
	sleepStart   string
	sleepEnd     string
	sleepQuality string
)

var sleepAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a night of sleep",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.SleepInput{StartTime: sleepStart, EndTime: sleepEnd, Quality: sleepQuality}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			entry, err := t.AddSleep(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added sleep %s (%dh%02dm, %s)\n", entry.ID, entry.DurationMinutes/60, entry.DurationMinutes%60, entry.Quality)
			return nil
		})
	},
}

var sleepListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sleep logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tLOGGED\tBED\tWAKE\tMINUTES\tQUALITY")
			for _, e := range s.tracker.Sleep() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%d\t%s\n", e.ID, formatTimestamp(e.Timestamp), e.StartTime, e.EndTime, e.DurationMinutes, e.Quality)
			}
			return nil
		})
	},
}

var sleepDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sleep log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args)
		if err != nil {
			return err
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			if err := t.DeleteSleep(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted sleep %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sleepCmd)
	sleepCmd.AddCommand(sleepAddCmd, sleepListCmd, sleepDeleteCmd)

	sleepAddCmd.Flags().StringVar(&sleepStart, "bed", "", "Bedtime HH:MM")
	sleepAddCmd.Flags().StringVar(&sleepEnd, "wake", "", "Wake time HH:MM")
	sleepAddCmd.Flags().StringVar(&sleepQuality, "quality", "average", "bad, average, good, or excellent")
	_ = sleepAddCmd.MarkFlagRequired("bed")
	_ = sleepAddCmd.MarkFlagRequired("wake")
}
