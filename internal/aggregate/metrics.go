package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

// Metric binds a chartable series to its extractor and aggregation policy.
type Metric struct {
	Name    string
	Unit    string
	Mode    Mode
	Extract func(model.Streams) []Point
	// Goal picks the matching daily target, if any.
	Goal func(model.UserGoals) float64
}

var metrics = []Metric{
	{Name: "water", Unit: "ml", Mode: Sum, Extract: WaterPoints, Goal: func(g model.UserGoals) float64 { return g.WaterMl }},
	{Name: "calories", Unit: "kcal", Mode: Sum, Extract: macroPoints(func(m model.Macros) float64 { return m.Calories }), Goal: func(g model.UserGoals) float64 { return g.Calories }},
	{Name: "protein", Unit: "g", Mode: Sum, Extract: macroPoints(func(m model.Macros) float64 { return m.Protein }), Goal: func(g model.UserGoals) float64 { return g.Protein }},
	{Name: "carbs", Unit: "g", Mode: Sum, Extract: macroPoints(func(m model.Macros) float64 { return m.Carbs }), Goal: func(g model.UserGoals) float64 { return g.Carbs }},
	{Name: "fat", Unit: "g", Mode: Sum, Extract: macroPoints(func(m model.Macros) float64 { return m.Fat }), Goal: func(g model.UserGoals) float64 { return g.Fat }},
	{Name: "activity", Unit: "min", Mode: Sum, Extract: ActivityMinutePoints, Goal: func(g model.UserGoals) float64 { return g.ActivityMinutes }},
	{Name: "burned", Unit: "kcal", Mode: Sum, Extract: ActivityCaloriePoints},
	{Name: "fasting", Unit: "h", Mode: Sum, Extract: FastingHourPoints, Goal: func(g model.UserGoals) float64 { return g.FastingHours }},
	{Name: "sleep", Unit: "h", Mode: Sum, Extract: SleepHourPoints, Goal: func(g model.UserGoals) float64 { return g.SleepHours }},
	{Name: "weight", Unit: "kg", Mode: Latest, Extract: WeightPoints, Goal: func(g model.UserGoals) float64 { return g.Weight }},
}

func Metrics() []Metric {
	out := make([]Metric, len(metrics))
	copy(out, metrics)
	return out
}

func MetricNames() []string {
	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

func LookupMetric(name string) (Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range metrics {
		if m.Name == name {
			return m, nil
		}
	}
	return Metric{}, fmt.Errorf("unknown metric %q (use one of: %s)", name, strings.Join(MetricNames(), ", "))
}

// Series aggregates one metric over window.
func (m Metric) Series(streams model.Streams, window Window, now time.Time) []Bucket {
	return Aggregate(m.Extract(streams), window, m.Mode, now)
}

func WaterPoints(s model.Streams) []Point {
	out := make([]Point, 0, len(s.Water))
	for _, e := range s.Water {
		out = append(out, Point{Time: e.Timestamp, Value: float64(e.AmountMl)})
	}
	return out
}

func macroPoints(pick func(model.Macros) float64) func(model.Streams) []Point {
	return func(s model.Streams) []Point {
		out := make([]Point, 0, len(s.Food))
		for _, e := range s.Food {
			out = append(out, Point{Time: e.Timestamp, Value: pick(e.Macros)})
		}
		return out
	}
}

func ActivityMinutePoints(s model.Streams) []Point {
	out := make([]Point, 0, len(s.Activity))
	for _, e := range s.Activity {
		out = append(out, Point{Time: e.Timestamp, Value: float64(e.DurationMinutes)})
	}
	return out
}

func ActivityCaloriePoints(s model.Streams) []Point {
	out := make([]Point, 0, len(s.Activity))
	for _, e := range s.Activity {
		out = append(out, Point{Time: e.Timestamp, Value: float64(e.CaloriesBurned)})
	}
	return out
}

// FastingHourPoints counts completed sessions only, attributed to their start.
func FastingHourPoints(s model.Streams) []Point {
	out := make([]Point, 0, len(s.Fasting))
	for _, f := range s.Fasting {
		if f.Status != model.FastingCompleted || f.EndTime == nil {
			continue
		}
		hours := float64(*f.EndTime-f.StartTime) / float64(time.Hour/time.Millisecond)
		if hours < 0 {
			continue
		}
		out = append(out, Point{Time: f.StartTime, Value: hours})
	}
	return out
}

func SleepHourPoints(s model.Streams) []Point {
	out := make([]Point, 0, len(s.Sleep))
	for _, e := range s.Sleep {
		out = append(out, Point{Time: e.Timestamp, Value: float64(e.DurationMinutes) / 60})
	}
	return out
}

func WeightPoints(s model.Streams) []Point {
	out := make([]Point, 0, len(s.Weight))
	for _, e := range s.Weight {
		out = append(out, Point{Time: e.Timestamp, Value: e.WeightKg})
	}
	return out
}
