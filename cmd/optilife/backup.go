package optilife

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/app"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of the active user",
}

var (
	backupBucket  string
	restoreMode   string
	restoreDryRun bool
)

func withBackups(cmd *cobra.Command, run func(*session, *service.BackupStore) error) error {
	return withSession(func(s *session) error {
		if err := requireUser(s); err != nil {
			return err
		}
		url := strings.TrimSpace(backupBucket)
		if url == "" {
			url = s.cfg.Backup.BucketURL
		}
		if url == "" {
			url = app.DefaultBackupURL(s.dbPath)
		}
		store, err := service.OpenBackupStore(cmd.Context(), url)
		if err != nil {
			return err
		}
		defer store.Close()
		return run(s, store)
	})
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackups(cmd, func(s *session, store *service.BackupStore) error {
			info, err := store.Create(cmd.Context(), s.tracker)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", info.Key)
			fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", info.Checksum)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackups(cmd, func(s *session, store *service.BackupStore) error {
			items, err := store.List(cmd.Context(), s.tracker.UserID())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tSIZE\tCREATED\tCHECKSUM")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", it.Key, it.SizeBytes, it.CreatedAt.Format(time.RFC3339), it.Checksum)
			}
			return nil
		})
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <key>",
	Short: "Restore a backup into the active user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := service.ParseImportMode(restoreMode)
		if err != nil {
			return err
		}
		return withBackups(cmd, func(s *session, store *service.BackupStore) error {
			report, err := store.Restore(cmd.Context(), args[0], s.tracker, service.ImportOptions{Mode: mode, DryRun: restoreDryRun})
			if err != nil {
				return err
			}
			printImportReport(cmd.OutOrStdout(), report, restoreDryRun)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupBucket, "bucket", "", "Blob bucket URL (default: backups/ next to the database)")
	backupRestoreCmd.Flags().StringVar(&restoreMode, "mode", "replace", "fail, merge, or replace")
	backupRestoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "Report what would change without writing")
}
