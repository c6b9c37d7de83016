package optilife

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ADILE66/OptilifeAI-sub001/internal/aggregate"
	"github.com/ADILE66/OptilifeAI-sub001/internal/insight"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
)

var (
	chartWindow string
	chartJSON   bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <metric>",
	Short: "Chart a metric over the last week, month, or year",
	Long:  "Chart a metric over a window. Metrics: " + strings.Join(aggregate.MetricNames(), ", ") + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			window, err := resolveWindow(cmd, s)
			if err != nil {
				return err
			}
			report, err := service.Chart(s.tracker, args[0], window)
			if err != nil {
				return err
			}
			if chartJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			renderChart(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

var (
	insightWindow      string
	insightSummaryOnly bool
)

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Summarize recent data and ask the AI coach for suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := requireUser(s); err != nil {
				return err
			}
			window, err := aggregate.ParseWindow(insightWindow)
			if err != nil {
				return err
			}
			report, err := service.InsightSummary(s.tracker, window)
			if err != nil {
				return err
			}
			summary := report.Text()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, summary)
			if insightSummaryOnly {
				return nil
			}

			timeout := s.cfg.Insight.Timeout
			if timeout <= 0 {
				timeout = time.Minute
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			client := &insight.Client{
				BaseURL:    s.cfg.Insight.BaseURL,
				APIKey:     s.cfg.Insight.APIKey,
				Model:      s.cfg.Insight.Model,
				HTTPClient: &http.Client{Timeout: timeout},
			}
			analysis, err := client.Analyze(ctx, summary)
			if errors.Is(err, insight.ErrNotConfigured) {
				fmt.Fprintln(out, "\nAI analysis skipped: set insight.apiKey or OPTILIFE_INSIGHT_APIKEY")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", analysis)
			return nil
		})
	},
}

// resolveWindow prefers --window, then the stored default_window.
func resolveWindow(cmd *cobra.Command, s *session) (aggregate.Window, error) {
	if cmd.Flags().Changed("window") {
		return aggregate.ParseWindow(chartWindow)
	}
	stored, ok, err := service.GetConfig(s.db, service.ConfigDefaultWindow)
	if err != nil {
		return "", err
	}
	if ok {
		return aggregate.ParseWindow(stored)
	}
	return aggregate.ParseWindow(chartWindow)
}

func renderChart(out io.Writer, r *service.ChartReport) {
	fmt.Fprintf(out, "%s (%s), last %s\n", r.Metric, r.Unit, r.Window)
	maxAbs := r.Goal
	for _, b := range r.Buckets {
		if b.Value != nil && math.Abs(*b.Value) > maxAbs {
			maxAbs = math.Abs(*b.Value)
		}
	}
	for _, b := range r.Buckets {
		if b.Value == nil {
			fmt.Fprintf(out, "  %-4s %-24s -\n", b.Label, "")
			continue
		}
		fmt.Fprintf(out, "  %-4s %-24s %.1f\n", b.Label, horizontalBar(*b.Value, maxAbs, 24), *b.Value)
	}
	if r.Total > 0 {
		fmt.Fprintf(out, "Total: %.1f %s\n", r.Total, r.Unit)
	}
	fmt.Fprintf(out, "Average: %.1f %s\n", r.Average, r.Unit)
	if r.Goal > 0 {
		fmt.Fprintf(out, "Goal: %.1f %s\n", r.Goal, r.Unit)
	}
	fmt.Fprintf(out, "Trend: %s (%.2f/bucket)\n", r.Trend.Direction, r.Trend.SlopePerBucket)
}

func horizontalBar(value, maxAbs float64, width int) string {
	if width <= 0 || maxAbs <= 0 {
		return ""
	}
	bars := int(math.Round(math.Abs(value) / maxAbs * float64(width)))
	if bars == 0 && value != 0 {
		bars = 1
	}
	if bars > width {
		bars = width
	}
	prefix := ""
	if value < 0 {
		prefix = "-"
	}
	return prefix + strings.Repeat("#", bars)
}

func printJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

func init() {
	rootCmd.AddCommand(chartCmd, insightCmd)

	chartCmd.Flags().StringVar(&chartWindow, "window", "week", "week, month, or year")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "Print the chart as JSON")

	insightCmd.Flags().StringVar(&insightWindow, "window", "week", "week, month, or year")
	insightCmd.Flags().BoolVar(&insightSummaryOnly, "summary-only", false, "Print the summary without calling the AI endpoint")
}
