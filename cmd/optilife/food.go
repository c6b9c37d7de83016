package optilife

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/config"
	"github.com/ADILE66/OptilifeAI-sub001/internal/nutrition"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage food logs",
}

var (
	foodName     string
	foodPortion  string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodImage    string
	foodBarcode  string
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.FoodInput{
			Name:    foodName,
			Portion: strings.TrimSpace(foodPortion),
			Macros: service.MacrosInput{
				Calories: foodCalories,
				Protein:  foodProtein,
				Carbs:    foodCarbs,
				Fat:      foodFat,
			},
		}
		if img := strings.TrimSpace(foodImage); img != "" {
			in.ImageRef = &img
		}
		if strings.TrimSpace(foodBarcode) != "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := lookupProduct(cmd.Context(), cfg, foodBarcode)
			if err != nil {
				return err
			}
			in = fillFromProduct(cmd, in, p)
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			entry, err := t.AddFood(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %s (%s, %.0f kcal)\n", entry.ID, entry.Name, entry.Macros.Calories)
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List food logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tNAME\tPORTION\tKCAL\tP\tC\tF")
			for _, e := range s.tracker.Food() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%.0f\t%.1f\t%.1f\t%.1f\n",
					e.ID, formatTimestamp(e.Timestamp), e.Name, e.Portion,
					e.Macros.Calories, e.Macros.Protein, e.Macros.Carbs, e.Macros.Fat)
			}
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a food log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args)
		if err != nil {
			return err
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			if err := t.DeleteFood(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %s\n", id)
			return nil
		})
	},
}

var foodLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Look up a packaged food by barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := lookupProduct(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name: %s\n", p.Name)
		if p.Brand != "" {
			fmt.Fprintf(out, "Brand: %s\n", p.Brand)
		}
		fmt.Fprintf(out, "Portion: %s\n", p.Portion)
		fmt.Fprintf(out, "Macros: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n", p.Macros.Calories, p.Macros.Protein, p.Macros.Carbs, p.Macros.Fat)
		return nil
	},
}

func lookupProduct(ctx context.Context, cfg *config.Config, barcode string) (nutrition.Product, error) {
	c := &nutrition.Client{BaseURL: cfg.Nutrition.BaseURL}
	return c.LookupBarcode(ctx, barcode)
}

// fillFromProduct uses the looked-up values for every field not given as a flag.
func fillFromProduct(cmd *cobra.Command, in service.FoodInput, p nutrition.Product) service.FoodInput {
	flags := cmd.Flags()
	if !flags.Changed("name") {
		in.Name = p.Name
	}
	if !flags.Changed("portion") {
		in.Portion = p.Portion
	}
	if !flags.Changed("calories") {
		in.Macros.Calories = p.Macros.Calories
	}
	if !flags.Changed("protein") {
		in.Macros.Protein = p.Macros.Protein
	}
	if !flags.Changed("carbs") {
		in.Macros.Carbs = p.Macros.Carbs
	}
	if !flags.Changed("fat") {
		in.Macros.Fat = p.Macros.Fat
	}
	return in
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodDeleteCmd, foodLookupCmd)

	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name")
	foodAddCmd.Flags().StringVar(&foodPortion, "portion", "", "Portion description")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carbs grams")
	foodAddCmd.Flags().Float64Var(&foodFat, "fat", 0, "Fat grams")
	foodAddCmd.Flags().StringVar(&foodImage, "image", "", "Photo reference")
	foodAddCmd.Flags().StringVar(&foodBarcode, "barcode", "", "Fill name, portion and macros from a barcode lookup")
	foodAddCmd.MarkFlagsOneRequired("name", "barcode")
}
