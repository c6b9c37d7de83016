package optilife

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := requireUser(s); err != nil {
				return err
			}
			user := s.tracker.UserID()
			report, err := service.RunDoctor(s.store, user, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Malformed blobs: %d\n", len(report.MalformedKeys))
			for _, k := range report.MalformedKeys {
				fmt.Fprintf(out, "  %s\n", k)
			}
			fmt.Fprintf(out, "Active fasts: %d\n", report.ActiveFasts)
			fmt.Fprintf(out, "Stream issues: %d\n", len(report.Issues))
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "  %s\n", issue)
			}
			fmt.Fprintf(out, "Unknown badges: %d\n", report.UnknownBadges)
			if report.MissingFirstActivity {
				fmt.Fprintln(out, "First activity timestamp: missing")
			}
			if doctorFix {
				fmt.Fprintf(out, "Fixed blobs: %s\n", strings.Join(report.FixedKeys, ", "))
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(s.store, user, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Reset malformed blobs to defaults")
}
