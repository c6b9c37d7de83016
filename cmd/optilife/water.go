package optilife

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Manage water logs",
}

var waterAmount int

var waterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log water intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			entry, err := t.AddWater(service.WaterInput{AmountMl: waterAmount})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added water %s (%d ml)\n", entry.ID, entry.AmountMl)
			return nil
		})
	},
}

var waterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List water logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tML")
			for _, e := range s.tracker.Water() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", e.ID, formatTimestamp(e.Timestamp), e.AmountMl)
			}
			return nil
		})
	},
}

var waterDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a water log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args)
		if err != nil {
			return err
		}
		return withMutation(cmd.OutOrStdout(), func(t *service.Tracker) error {
			if err := t.DeleteWater(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted water %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(waterCmd)
	waterCmd.AddCommand(waterAddCmd, waterListCmd, waterDeleteCmd)

	waterAddCmd.Flags().IntVar(&waterAmount, "ml", 0, "Amount in millilitres")
	_ = waterAddCmd.MarkFlagRequired("ml")
}
