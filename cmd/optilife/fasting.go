package optilife

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/fasting"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var fastCmd = &cobra.Command{
	Use:   "fast",
	Short: "Manage fasting sessions",
}

var fastGoalHours float64

var fastStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a fast now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			s, err := t.StartFast(service.FastStartInput{GoalHours: fastGoalHours})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started fast %s (goal %.0fh)\n", s.ID, s.GoalHours)
			return nil
		})
	},
}

var fastEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active fast",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			s, ok, err := t.EndFast()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No active fast")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ended fast %s after %s\n", s.ID, formatHours(fasting.Elapsed(s, t.Now())))
			return nil
		})
	},
}

var (
	fastLogStartDate string
	fastLogStartTime string
	fastLogEndDate   string
	fastLogEndTime   string
)

var fastLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a past fast",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDateTime(fastLogStartDate, fastLogStartTime)
		if err != nil {
			return err
		}
		end, err := parseDateTime(fastLogEndDate, fastLogEndTime)
		if err != nil {
			return err
		}
		in := service.FastLogInput{StartTime: start, EndTime: end, GoalHours: fastGoalHours}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			s, err := t.AddFastLog(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged fast %s (%s)\n", s.ID, formatHours(end.Sub(start)))
			return nil
		})
	},
}

var fastDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a fasting session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args)
		if err != nil {
			return err
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			if err := t.DeleteFast(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted fast %s\n", id)
			return nil
		})
	},
}

var fastStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active fast and past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			out := cmd.OutOrStdout()
			now := s.tracker.Now()
			if active, ok := s.tracker.ActiveFast(); ok {
				fmt.Fprintf(out, "Active: %s since %s, %s of %.0fh (%.0f%%)\n",
					active.ID, formatTimestamp(active.StartTime), formatHours(fasting.Elapsed(active, now)),
					active.GoalHours, fasting.Progress(active, now))
			} else {
				fmt.Fprintln(out, "Active: none")
			}
			fmt.Fprintln(out, "ID\tSTART\tEND\tHOURS\tGOAL\tSTATUS")
			for _, f := range s.tracker.Fasts() {
				end := "-"
				if f.EndTime != nil {
					end = formatTimestamp(*f.EndTime)
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%.1f\t%.0f\t%s\n", f.ID, formatTimestamp(f.StartTime), end, fasting.Elapsed(f, now).Hours(), f.GoalHours, f.Status)
			}
			return nil
		})
	},
}

func formatHours(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func init() {
	rootCmd.AddCommand(fastCmd)
	fastCmd.AddCommand(fastStartCmd, fastEndCmd, fastLogCmd, fastDeleteCmd, fastStatusCmd)

	fastStartCmd.Flags().Float64Var(&fastGoalHours, "goal", 16, "Goal in hours")
	fastLogCmd.Flags().Float64Var(&fastGoalHours, "goal", 16, "Goal in hours")
	fastLogCmd.Flags().StringVar(&fastLogStartDate, "start-date", "", "Start date YYYY-MM-DD")
	fastLogCmd.Flags().StringVar(&fastLogStartTime, "start-time", "", "Start time HH:MM")
	fastLogCmd.Flags().StringVar(&fastLogEndDate, "end-date", "", "End date YYYY-MM-DD")
	fastLogCmd.Flags().StringVar(&fastLogEndTime, "end-time", "", "End time HH:MM")
	_ = fastLogCmd.MarkFlagRequired("start-date")
	_ = fastLogCmd.MarkFlagRequired("start-time")
	_ = fastLogCmd.MarkFlagRequired("end-date")
	_ = fastLogCmd.MarkFlagRequired("end-time")
}
