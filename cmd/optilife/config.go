package optilife

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/aggregate"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage optilife local configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a stored config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(strings.TrimSpace(args[0]))
		value := strings.TrimSpace(args[1])
		return withDB(func(sqldb *sql.DB) error {
			switch key {
			case service.ConfigActiveUser:
				if err := service.SetActiveUser(sqldb, value); err != nil {
					return err
				}
			case service.ConfigDefaultWindow:
				w, err := aggregate.ParseWindow(value)
				if err != nil {
					return err
				}
				if err := service.SetConfig(sqldb, key, string(w)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown config key %q (use %s or %s)", key, service.ConfigActiveUser, service.ConfigDefaultWindow)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a stored config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			value, ok, err := service.GetConfig(sqldb, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		})
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(items))
			for k := range items {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, items[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
}
