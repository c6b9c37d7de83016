package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADILE66/OptilifeAI-sub001/internal/aggregate"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

func TestTodaySummaryCountsOnlyToday(t *testing.T) {
	t.Parallel()
	tr, clock := newTracker(t, storage.NewMemoryStore(), "alice")

	_, err := tr.AddWater(service.WaterInput{AmountMl: 5000})
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)

	_, err = tr.AddWater(service.WaterInput{AmountMl: 1250})
	require.NoError(t, err)
	_, err = tr.AddFood(service.FoodInput{Name: "pasta", Macros: service.MacrosInput{Calories: 700, Protein: 25, Carbs: 110, Fat: 15}})
	require.NoError(t, err)
	_, err = tr.AddActivity(service.ActivityInput{ActivityName: "run", DurationMinutes: 45, CaloriesBurned: 400})
	require.NoError(t, err)
	_, err = tr.StartFast(service.FastStartInput{GoalHours: 16})
	require.NoError(t, err)
	clock.Advance(4 * time.Hour)

	status := service.TodaySummary(tr)
	assert.Equal(t, "2026-10-16", status.Date)
	assert.Equal(t, 1250.0, status.WaterMl.Value)
	assert.Equal(t, 50.0, status.WaterMl.Percent)
	assert.Equal(t, 700.0, status.Calories.Value)
	assert.Equal(t, 35.0, status.Calories.Percent)
	assert.Equal(t, 100.0, status.ActivityMinutes.Percent)
	assert.Equal(t, 400, status.ExerciseCalories)
	assert.Equal(t, 300.0, status.NetCalories)
	require.NotNil(t, status.ActiveFast)
	assert.InDelta(t, 4.0, status.ActiveFast.ElapsedHours, 0.001)
	assert.InDelta(t, 25.0, status.ActiveFast.Percent, 0.001)
	assert.Nil(t, status.WeightKg)
	assert.Equal(t, len(tr.PendingBadges()), status.PendingBadges)
}

func TestChartWaterWeek(t *testing.T) {
	t.Parallel()
	tr, clock := newTracker(t, storage.NewMemoryStore(), "alice")

	for i := 0; i < 3; i++ {
		_, err := tr.AddWater(service.WaterInput{AmountMl: 1000 * (i + 1)})
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	report, err := service.Chart(tr, "water", aggregate.Week)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 7)
	assert.Equal(t, "ml", report.Unit)
	assert.Equal(t, 6000.0, report.Total)
	assert.Equal(t, 2500.0, report.Goal)
	require.NotNil(t, report.Latest)
	assert.Equal(t, 0.0, *report.Latest, "nothing logged today yet")

	_, err = service.Chart(tr, "steps", aggregate.Week)
	assert.Error(t, err)
}

func TestChartWeightCarriesForward(t *testing.T) {
	t.Parallel()
	tr, clock := newTracker(t, storage.NewMemoryStore(), "alice")

	_, err := tr.AddWeight(service.WeightInput{Weight: 75})
	require.NoError(t, err)
	clock.Advance(72 * time.Hour)

	report, err := service.Chart(tr, "weight", aggregate.Week)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	require.NotNil(t, report.Latest)
	assert.Equal(t, 75.0, *report.Latest)
	assert.Nil(t, report.Buckets[0].Value)
}

func TestInsightSummaryText(t *testing.T) {
	t.Parallel()
	tr, clock := newTracker(t, storage.NewMemoryStore(), "alice")
	seedTracker(t, tr, clock)

	report, err := service.InsightSummary(tr, aggregate.Month)
	require.NoError(t, err)
	assert.Len(t, report.Charts, len(aggregate.MetricNames()))
	assert.Equal(t, 1, report.LongestStreak)
	assert.Contains(t, report.EarnedBadges, "First Sip")

	text := report.Text()
	assert.Contains(t, text, "Window: last month")
	assert.Contains(t, text, "- water:")
	assert.Contains(t, text, "Badges: First Sip")
}
