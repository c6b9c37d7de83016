package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Manage weight logs",
}

var (
	weightValue float64
	weightUnit  string
)

var weightAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a weight measurement",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.WeightInput{Weight: weightValue, Unit: weightUnit}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			entry, err := t.AddWeight(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added weight %s (%.2f kg)\n", entry.ID, entry.WeightKg)
			return nil
		})
	},
}

var weightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weight logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.WeightFromKg(0, weightUnit); err != nil {
			return err
		}
		return withSession(func(s *session) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ID\tDATE\tWEIGHT_%s\n", unitLabel(weightUnit))
			for _, e := range s.tracker.Weights() {
				v, _ := service.WeightFromKg(e.WeightKg, weightUnit)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.2f\n", e.ID, formatTimestamp(e.Timestamp), v)
			}
			return nil
		})
	},
}

var weightDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a weight log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args)
		if err != nil {
			return err
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			if err := t.DeleteWeight(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted weight %s\n", id)
			return nil
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage personal profile",
}

var (
	profileAge    int
	profileWeight float64
	profileUnit   string
	profileHeight float64
	profileGender string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields (only the flags given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch service.ProfilePatch
		flags := cmd.Flags()
		if flags.Changed("age") {
			v := profileAge
			patch.Age = &v
		}
		if flags.Changed("weight") {
			kg, err := service.ToKg(profileWeight, profileUnit)
			if err != nil {
				return err
			}
			patch.WeightKg = &kg
		}
		if flags.Changed("height") {
			v := profileHeight
			patch.HeightCm = &v
		}
		if flags.Changed("gender") {
			v := profileGender
			patch.Gender = &v
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			p, err := t.UpdateProfile(patch)
			if err != nil {
				return err
			}
			printProfile(cmd, p)
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			printProfile(cmd, s.tracker.Profile())
			return nil
		})
	},
}

func printProfile(cmd *cobra.Command, p model.UserProfile) {
	out := cmd.OutOrStdout()
	if p.Age != nil {
		fmt.Fprintf(out, "Age: %d\n", *p.Age)
	} else {
		fmt.Fprintln(out, "Age: -")
	}
	if p.WeightKg != nil {
		fmt.Fprintf(out, "Weight: %.2f kg\n", *p.WeightKg)
	} else {
		fmt.Fprintln(out, "Weight: -")
	}
	if p.HeightCm != nil {
		fmt.Fprintf(out, "Height: %.1f cm\n", *p.HeightCm)
	} else {
		fmt.Fprintln(out, "Height: -")
	}
	if p.Gender != nil {
		fmt.Fprintf(out, "Gender: %s\n", *p.Gender)
	} else {
		fmt.Fprintln(out, "Gender: -")
	}
}

func unitLabel(unit string) string {
	switch unit {
	case "lb", "lbs":
		return "LB"
	default:
		return "KG"
	}
}

func init() {
	rootCmd.AddCommand(weightCmd, profileCmd)
	weightCmd.AddCommand(weightAddCmd, weightListCmd, weightDeleteCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)

	weightAddCmd.Flags().Float64Var(&weightValue, "value", 0, "Weight value")
	weightAddCmd.Flags().StringVar(&weightUnit, "unit", "kg", "Weight unit: kg or lb")
	_ = weightAddCmd.MarkFlagRequired("value")
	weightListCmd.Flags().StringVar(&weightUnit, "unit", "kg", "Display unit: kg or lb")

	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Current weight")
	profileSetCmd.Flags().StringVar(&profileUnit, "unit", "kg", "Weight unit: kg or lb")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().StringVar(&profileGender, "gender", "", "male, female, or other")
}
