package service

import (
	"fmt"
	"strings"

	"github.com/ADILE66/OptilifeAI-sub001/internal/aggregate"
	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
)

type TrendStat struct {
	SlopePerBucket float64 `json:"slope_per_bucket"`
	Direction      string  `json:"direction"`
}

type ChartReport struct {
	Metric  string             `json:"metric"`
	Unit    string             `json:"unit"`
	Window  aggregate.Window   `json:"window"`
	Buckets []aggregate.Bucket `json:"buckets"`
	// Total is only meaningful for summed metrics.
	Total   float64   `json:"total"`
	Average float64   `json:"average"`
	Latest  *float64  `json:"latest,omitempty"`
	Goal    float64   `json:"goal,omitempty"`
	Trend   TrendStat `json:"trend"`
}

// Chart aggregates one metric over window, ending at the tracker's now.
func Chart(t *Tracker, metric string, window aggregate.Window) (*ChartReport, error) {
	m, err := aggregate.LookupMetric(metric)
	if err != nil {
		return nil, err
	}
	snap := t.Snapshot()
	buckets := m.Series(snap.Streams, window, t.Now())

	report := &ChartReport{Metric: m.Name, Unit: m.Unit, Window: window, Buckets: buckets}
	values := bucketValues(buckets)
	report.Average = avg(values)
	report.Trend = trendFromValues(values)
	if m.Mode == aggregate.Sum {
		report.Total = aggregate.Total(buckets)
	}
	if len(buckets) > 0 && buckets[len(buckets)-1].Value != nil {
		v := *buckets[len(buckets)-1].Value
		report.Latest = &v
	}
	if m.Goal != nil {
		report.Goal = m.Goal(t.Goals())
	}
	return report, nil
}

func bucketValues(buckets []aggregate.Bucket) []float64 {
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		if b.Value != nil {
			out = append(out, *b.Value)
		}
	}
	return out
}

type InsightReport struct {
	Window        aggregate.Window `json:"window"`
	Charts        []ChartReport    `json:"charts"`
	LongestStreak int              `json:"longest_streak"`
	EarnedBadges  []string         `json:"earned_badges"`
}

// InsightSummary collects every metric over window into one report.
func InsightSummary(t *Tracker, window aggregate.Window) (*InsightReport, error) {
	report := &InsightReport{Window: window}
	for _, name := range aggregate.MetricNames() {
		chart, err := Chart(t, name, window)
		if err != nil {
			return nil, err
		}
		report.Charts = append(report.Charts, *chart)
	}
	report.LongestStreak = badge.LongestStreak(t.Snapshot())
	for _, id := range t.EarnedBadges() {
		if rule, ok := badge.Lookup(id); ok {
			report.EarnedBadges = append(report.EarnedBadges, rule.Title)
			continue
		}
		report.EarnedBadges = append(report.EarnedBadges, id)
	}
	return report, nil
}

// Text renders the report as plain lines suitable for a prompt.
func (r *InsightReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: last %s\n", r.Window)
	for _, c := range r.Charts {
		fmt.Fprintf(&b, "- %s: average %.1f %s per bucket", c.Metric, c.Average, c.Unit)
		if c.Total > 0 {
			fmt.Fprintf(&b, ", total %.1f %s", c.Total, c.Unit)
		}
		if c.Latest != nil {
			fmt.Fprintf(&b, ", latest %.1f", *c.Latest)
		}
		if c.Goal > 0 {
			fmt.Fprintf(&b, ", daily goal %.1f", c.Goal)
		}
		fmt.Fprintf(&b, ", trend %s\n", c.Trend.Direction)
	}
	fmt.Fprintf(&b, "Longest logging streak: %d days\n", r.LongestStreak)
	if len(r.EarnedBadges) > 0 {
		fmt.Fprintf(&b, "Badges: %s\n", strings.Join(r.EarnedBadges, ", "))
	}
	return b.String()
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func trendFromValues(values []float64) TrendStat {
	slope := linearRegressionSlope(values)
	direction := "flat"
	if slope >= 0.5 {
		direction = "up"
	} else if slope <= -0.5 {
		direction = "down"
	}
	return TrendStat{
		SlopePerBucket: slope,
		Direction:      direction,
	}
}

func linearRegressionSlope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i := range values {
		x := float64(i)
		y := values[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := (float64(n) * sumX2) - (sumX * sumX)
	if denom == 0 {
		return 0
	}
	return ((float64(n) * sumXY) - (sumX * sumY)) / denom
}
