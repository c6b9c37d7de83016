package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var todayJSON bool

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's totals and goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			status := service.TodaySummary(s.tracker)
			if todayJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}
			out := cmd.OutOrStdout()
			line := func(label, unit string, p service.Progress) {
				fmt.Fprintf(out, "%-9s %.0f / %.0f %s (%.0f%%)\n", label+":", p.Value, p.Goal, unit, p.Percent)
			}
			fmt.Fprintf(out, "Date: %s\n", status.Date)
			line("Water", "ml", status.WaterMl)
			line("Calories", "kcal", status.Calories)
			line("Protein", "g", status.ProteinG)
			line("Carbs", "g", status.CarbsG)
			line("Fat", "g", status.FatG)
			line("Activity", "min", status.ActivityMinutes)
			fmt.Fprintf(out, "Exercise: %d kcal | Net: %.0f kcal\n", status.ExerciseCalories, status.NetCalories)
			fmt.Fprintf(out, "%-9s %.1f / %.1f h (%.0f%%)\n", "Sleep:", status.SleepHours.Value, status.SleepHours.Goal, status.SleepHours.Percent)
			fmt.Fprintf(out, "%-9s %.1f / %.1f h (%.0f%%)\n", "Fasting:", status.FastingHours.Value, status.FastingHours.Goal, status.FastingHours.Percent)
			if f := status.ActiveFast; f != nil {
				fmt.Fprintf(out, "Active fast: %.1f / %.0f h (%.0f%%)\n", f.ElapsedHours, f.GoalHours, f.Percent)
			}
			if status.WeightKg != nil {
				fmt.Fprintf(out, "Weight: %.1f kg (goal %.1f kg)\n", *status.WeightKg, status.GoalWeightKg)
			} else {
				fmt.Fprintf(out, "Weight: - (goal %.1f kg)\n", status.GoalWeightKg)
			}
			if status.PendingBadges > 0 {
				fmt.Fprintf(out, "Pending badges: %d (see `optilife badges pending`)\n", status.PendingBadges)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Print the summary as JSON")
}
