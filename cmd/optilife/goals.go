package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage daily targets",
}

var (
	goalCalories float64
	goalProtein  float64
	goalCarbs    float64
	goalFat      float64
	goalWater    float64
	goalActivity float64
	goalFasting  float64
	goalWeight   float64
	goalSleep    float64
)

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update targets (only the flags given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		pick := func(name string, v float64) *float64 {
			if !flags.Changed(name) {
				return nil
			}
			return &v
		}
		patch := service.GoalsPatch{
			Calories:        pick("calories", goalCalories),
			Protein:         pick("protein", goalProtein),
			Carbs:           pick("carbs", goalCarbs),
			Fat:             pick("fat", goalFat),
			WaterMl:         pick("water", goalWater),
			ActivityMinutes: pick("activity", goalActivity),
			FastingHours:    pick("fasting", goalFasting),
			Weight:          pick("weight", goalWeight),
			SleepHours:      pick("sleep", goalSleep),
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			g, err := t.UpdateGoals(patch)
			if err != nil {
				return err
			}
			printGoals(cmd, g)
			return nil
		})
	},
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show daily targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			printGoals(cmd, s.tracker.Goals())
			return nil
		})
	},
}

func printGoals(cmd *cobra.Command, g model.UserGoals) {
	fmt.Fprintf(cmd.OutOrStdout(), "Calories: %.0f kcal\nProtein: %.1fg\nCarbs: %.1fg\nFat: %.1fg\nWater: %.0f ml\nActivity: %.0f min\nFasting: %.1f h\nWeight: %.1f kg\nSleep: %.1f h\n",
		g.Calories, g.Protein, g.Carbs, g.Fat, g.WaterMl, g.ActivityMinutes, g.FastingHours, g.Weight, g.SleepHours)
}

func init() {
	rootCmd.AddCommand(goalsCmd)
	goalsCmd.AddCommand(goalsSetCmd, goalsShowCmd)

	goalsSetCmd.Flags().Float64Var(&goalCalories, "calories", 0, "Daily calorie target")
	goalsSetCmd.Flags().Float64Var(&goalProtein, "protein", 0, "Daily protein grams")
	goalsSetCmd.Flags().Float64Var(&goalCarbs, "carbs", 0, "Daily carbs grams")
	goalsSetCmd.Flags().Float64Var(&goalFat, "fat", 0, "Daily fat grams")
	goalsSetCmd.Flags().Float64Var(&goalWater, "water", 0, "Daily water ml")
	goalsSetCmd.Flags().Float64Var(&goalActivity, "activity", 0, "Daily activity minutes")
	goalsSetCmd.Flags().Float64Var(&goalFasting, "fasting", 0, "Fasting hours")
	goalsSetCmd.Flags().Float64Var(&goalWeight, "weight", 0, "Target weight kg")
	goalsSetCmd.Flags().Float64Var(&goalSleep, "sleep", 0, "Nightly sleep hours")
}
