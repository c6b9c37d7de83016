package badge_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

func day(d, h int) int64 {
	return time.Date(2026, 10, d, h, 0, 0, 0, time.UTC).UnixMilli()
}

func snap(streams model.Streams) model.Snapshot {
	return model.Snapshot{Streams: streams, Location: time.UTC}
}

func TestEvaluate_FirstLogs(t *testing.T) {
	e := badge.NewEngine()
	s := snap(model.Streams{
		Water:    []model.WaterEntry{{ID: "w", AmountMl: 250, Timestamp: day(1, 8)}},
		Food:     []model.FoodEntry{{ID: "f", Name: "oats", Timestamp: day(1, 9)}},
		Activity: []model.ActivityEntry{{ID: "a", ActivityName: "run", DurationMinutes: 30, Timestamp: day(1, 18)}},
	})

	got := e.Evaluate(s, nil)

	assert.Equal(t, []string{badge.FirstWaterLog, badge.FirstFoodLog, badge.FirstActivityLog}, got)
}

func TestEvaluate_IdempotentOnSameSnapshot(t *testing.T) {
	e := badge.NewEngine()
	s := snap(model.Streams{Water: []model.WaterEntry{{ID: "w", AmountMl: 250, Timestamp: day(1, 8)}}})

	first := e.Evaluate(s, nil)
	require.NotEmpty(t, first)
	second := e.Evaluate(s, first)

	assert.Empty(t, second)
}

func TestEvaluate_EarnedSetIsMonotonic(t *testing.T) {
	e := badge.NewEngine()
	var streams model.Streams
	earned := []string{}
	for i := 0; i < 120; i++ {
		streams.Water = append(streams.Water, model.WaterEntry{ID: fmt.Sprintf("w%d", i), AmountMl: 100, Timestamp: day(1+i%20, 8)})
		if i == 60 {
			// Deleting history never revokes what was earned.
			streams.Water = streams.Water[:1]
		}
		before := append([]string(nil), earned...)
		earned = append(earned, e.Evaluate(snap(streams), earned)...)
		assert.Subset(t, earned, before)
	}
	assert.Contains(t, earned, badge.FirstWaterLog)
	assert.Len(t, earned, len(uniq(earned)))
}

func uniq(ids []string) map[string]bool {
	out := map[string]bool{}
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func TestEvaluate_CountAndSumThresholds(t *testing.T) {
	e := badge.NewEngine()
	var streams model.Streams
	for i := 0; i < 99; i++ {
		streams.Food = append(streams.Food, model.FoodEntry{ID: fmt.Sprintf("f%d", i), Timestamp: day(1, 8)})
	}
	streams.Activity = []model.ActivityEntry{
		{ID: "a1", DurationMinutes: 600, Timestamp: day(1, 8)},
		{ID: "a2", DurationMinutes: 399, Timestamp: day(1, 9)},
	}
	got := e.Evaluate(snap(streams), nil)
	assert.NotContains(t, got, badge.FoodLogCount100)
	assert.NotContains(t, got, badge.ActivityMinutes1000)

	streams.Food = append(streams.Food, model.FoodEntry{ID: "f99", Timestamp: day(1, 8)})
	streams.Activity = append(streams.Activity, model.ActivityEntry{ID: "a3", DurationMinutes: 1, Timestamp: day(1, 10)})
	got = e.Evaluate(snap(streams), got)
	assert.ElementsMatch(t, []string{badge.FoodLogCount100, badge.ActivityMinutes1000}, got)
}

func TestEvaluate_FastingBadgesNeedCompletion(t *testing.T) {
	e := badge.NewEngine()
	streams := model.Streams{Fasting: []model.FastingSession{
		{ID: "a", StartTime: day(1, 8), GoalHours: 16, Status: model.FastingActive},
	}}
	got := e.Evaluate(snap(streams), nil)
	assert.NotContains(t, got, badge.FirstFastCompleted)
	assert.NotContains(t, got, badge.Fast16h)

	end := day(2, 0)
	streams.Fasting[0].Status = model.FastingCompleted
	streams.Fasting[0].EndTime = &end
	got = e.Evaluate(snap(streams), nil)
	assert.Contains(t, got, badge.FirstFastCompleted)
	assert.Contains(t, got, badge.Fast16h)
}

func TestEvaluate_ShortFastSkipsSixteenHourBadge(t *testing.T) {
	end := day(1, 20)
	streams := model.Streams{Fasting: []model.FastingSession{
		{ID: "a", StartTime: day(1, 8), EndTime: &end, GoalHours: 12, Status: model.FastingCompleted},
	}}
	got := badge.NewEngine().Evaluate(snap(streams), nil)
	assert.Contains(t, got, badge.FirstFastCompleted)
	assert.NotContains(t, got, badge.Fast16h)
}

func TestEvaluate_SleepEightHours(t *testing.T) {
	streams := model.Streams{Sleep: []model.SleepEntry{{ID: "s", DurationMinutes: 479, Timestamp: day(1, 8)}}}
	assert.NotContains(t, badge.NewEngine().Evaluate(snap(streams), nil), badge.Sleep8h)

	streams.Sleep[0].DurationMinutes = 480
	assert.Contains(t, badge.NewEngine().Evaluate(snap(streams), nil), badge.Sleep8h)
}

func TestLongestStreak_CountsConsecutiveLogDaysAcrossStreams(t *testing.T) {
	streams := model.Streams{
		Water:   []model.WaterEntry{{ID: "w1", Timestamp: day(1, 8)}, {ID: "w2", Timestamp: day(1, 20)}},
		Food:    []model.FoodEntry{{ID: "f1", Timestamp: day(2, 12)}},
		Sleep:   []model.SleepEntry{{ID: "s1", Timestamp: day(3, 7)}},
		Weight:  []model.WeightEntry{{ID: "k1", Timestamp: day(5, 7)}},
		Fasting: []model.FastingSession{{ID: "x", StartTime: day(9, 20), Status: model.FastingActive}},
	}
	s := snap(streams)

	assert.Equal(t, 3, badge.LongestStreak(s))
	got := badge.NewEngine().Evaluate(s, nil)
	assert.Contains(t, got, badge.Streak3)
	assert.NotContains(t, got, badge.Streak7)
}

func TestLongestStreak_SevenDays(t *testing.T) {
	var streams model.Streams
	for d := 10; d < 17; d++ {
		streams.Activity = append(streams.Activity, model.ActivityEntry{ID: fmt.Sprintf("a%d", d), DurationMinutes: 10, Timestamp: day(d, 23)})
	}
	got := badge.NewEngine().Evaluate(snap(streams), nil)
	assert.Contains(t, got, badge.Streak3)
	assert.Contains(t, got, badge.Streak7)
}

func TestLongestStreak_UsesFirstActivityDay(t *testing.T) {
	first := day(1, 8)
	s := snap(model.Streams{Water: []model.WaterEntry{{ID: "w", Timestamp: day(2, 8)}, {ID: "w2", Timestamp: day(3, 8)}}})
	assert.Equal(t, 2, badge.LongestStreak(s))

	s.FirstActivity = &first
	assert.Equal(t, 3, badge.LongestStreak(s))
}

func TestLookup(t *testing.T) {
	r, ok := badge.Lookup(badge.Sleep8h)
	require.True(t, ok)
	assert.Equal(t, "Well Rested", r.Title)

	_, ok = badge.Lookup("nope")
	assert.False(t, ok)
}

func TestNewEngine_CustomRules(t *testing.T) {
	e := badge.NewEngine(badge.Rule{ID: "always", Satisfied: func(model.Snapshot) bool { return true }})
	assert.Equal(t, []string{"always"}, e.Evaluate(snap(model.Streams{}), nil))
	assert.Empty(t, e.Evaluate(snap(model.Streams{}), []string{"always"}))
}
