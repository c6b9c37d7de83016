package optilife

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local optilife database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := resolveDBPath(cfg)
		if err != nil {
			return err
		}
		sqldb, err := openDB(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized optilife database at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
