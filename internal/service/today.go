package service

import (
	"time"

	"github.com/ADILE66/OptilifeAI-sub001/internal/aggregate"
	"github.com/ADILE66/OptilifeAI-sub001/internal/fasting"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

type Progress struct {
	Value   float64 `json:"value"`
	Goal    float64 `json:"goal"`
	Percent float64 `json:"percent"`
}

func progress(value, goal float64) Progress {
	return Progress{Value: value, Goal: goal, Percent: aggregate.Percent(value, goal)}
}

type ActiveFastStatus struct {
	ID           string  `json:"id"`
	StartedAt    string  `json:"started_at"`
	ElapsedHours float64 `json:"elapsed_hours"`
	GoalHours    float64 `json:"goal_hours"`
	Percent      float64 `json:"percent"`
}

type TodayStatus struct {
	Date             string            `json:"date"`
	WaterMl          Progress          `json:"water_ml"`
	Calories         Progress          `json:"calories"`
	ProteinG         Progress          `json:"protein_g"`
	CarbsG           Progress          `json:"carbs_g"`
	FatG             Progress          `json:"fat_g"`
	ActivityMinutes  Progress          `json:"activity_minutes"`
	ExerciseCalories int               `json:"exercise_calories"`
	NetCalories      float64           `json:"net_calories"`
	SleepHours       Progress          `json:"sleep_hours"`
	FastingHours     Progress          `json:"fasting_hours"`
	ActiveFast       *ActiveFastStatus `json:"active_fast,omitempty"`
	WeightKg         *float64          `json:"weight_kg,omitempty"`
	GoalWeightKg     float64           `json:"goal_weight_kg"`
	PendingBadges    int               `json:"pending_badges"`
}

// TodaySummary reports the current local day against the daily goals.
func TodaySummary(t *Tracker) *TodayStatus {
	now := t.Now()
	snap := t.Snapshot()
	goals := t.Goals()
	start, end := aggregate.DayRange(now)
	day := func(points []aggregate.Point) float64 {
		return aggregate.SumBetween(points, start, end)
	}

	sumMacro := func(pick func(model.Macros) float64) float64 {
		total := 0.0
		for _, f := range snap.Food {
			ts := model.TimeOf(f.Timestamp, now.Location())
			if !ts.Before(start) && ts.Before(end) {
				total += pick(f.Macros)
			}
		}
		return total
	}

	status := &TodayStatus{Date: start.Format("2006-01-02")}
	status.WaterMl = progress(day(aggregate.WaterPoints(snap.Streams)), goals.WaterMl)
	status.Calories = progress(sumMacro(func(m model.Macros) float64 { return m.Calories }), goals.Calories)
	status.ProteinG = progress(sumMacro(func(m model.Macros) float64 { return m.Protein }), goals.Protein)
	status.CarbsG = progress(sumMacro(func(m model.Macros) float64 { return m.Carbs }), goals.Carbs)
	status.FatG = progress(sumMacro(func(m model.Macros) float64 { return m.Fat }), goals.Fat)
	status.ActivityMinutes = progress(day(aggregate.ActivityMinutePoints(snap.Streams)), goals.ActivityMinutes)
	status.ExerciseCalories = int(day(aggregate.ActivityCaloriePoints(snap.Streams)))
	status.NetCalories = status.Calories.Value - float64(status.ExerciseCalories)
	status.SleepHours = progress(day(aggregate.SleepHourPoints(snap.Streams)), goals.SleepHours)
	status.FastingHours = progress(day(aggregate.FastingHourPoints(snap.Streams)), goals.FastingHours)
	status.GoalWeightKg = goals.Weight

	if active, ok := fasting.Active(snap.Fasting); ok {
		status.ActiveFast = &ActiveFastStatus{
			ID:           active.ID,
			StartedAt:    model.TimeOf(active.StartTime, now.Location()).Format(time.RFC3339),
			ElapsedHours: fasting.Elapsed(active, now).Hours(),
			GoalHours:    active.GoalHours,
			Percent:      fasting.Progress(active, now),
		}
	}
	if n := len(snap.Weight); n > 0 {
		v := snap.Weight[n-1].WeightKg
		status.WeightKg = &v
	}
	status.PendingBadges = len(t.PendingBadges())
	return status
}
