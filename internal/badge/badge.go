// Package badge evaluates achievement rules against a full log snapshot.
// Rules are independent predicates; adding an achievement means adding a
// catalogue row.
package badge

import (
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

type Rule struct {
	ID          string
	Title       string
	Description string
	Satisfied   func(model.Snapshot) bool
}

const (
	FirstWaterLog       = "first-water-log"
	FirstFoodLog        = "first-food-log"
	FirstActivityLog    = "first-activity-log"
	FirstFastCompleted  = "first-fast-completed"
	WaterLogCount100    = "water-log-count-100"
	FoodLogCount100     = "food-log-count-100"
	ActivityMinutes1000 = "activity-minutes-1000"
	Fast16h             = "fast-16h"
	Sleep8h             = "sleep-8h"
	Streak3             = "streak-3"
	Streak7             = "streak-7"
)

var Catalog = []Rule{
	{ID: FirstWaterLog, Title: "First Sip", Description: "Log water for the first time", Satisfied: func(s model.Snapshot) bool {
		return len(s.Water) > 0
	}},
	{ID: FirstFoodLog, Title: "First Bite", Description: "Log a meal for the first time", Satisfied: func(s model.Snapshot) bool {
		return len(s.Food) > 0
	}},
	{ID: FirstActivityLog, Title: "First Move", Description: "Log an activity for the first time", Satisfied: func(s model.Snapshot) bool {
		return len(s.Activity) > 0
	}},
	{ID: FirstFastCompleted, Title: "Fast Starter", Description: "Complete a fast", Satisfied: func(s model.Snapshot) bool {
		return anyFast(s, func(f model.FastingSession) bool { return true })
	}},
	{ID: WaterLogCount100, Title: "Hydration Habit", Description: "Log water 100 times", Satisfied: func(s model.Snapshot) bool {
		return len(s.Water) >= 100
	}},
	{ID: FoodLogCount100, Title: "Food Journal", Description: "Log 100 meals", Satisfied: func(s model.Snapshot) bool {
		return len(s.Food) >= 100
	}},
	{ID: ActivityMinutes1000, Title: "Thousand Minutes", Description: "Accumulate 1000 active minutes", Satisfied: func(s model.Snapshot) bool {
		total := 0
		for _, a := range s.Activity {
			total += a.DurationMinutes
		}
		return total >= 1000
	}},
	{ID: Fast16h, Title: "16 Hour Fast", Description: "Complete a fast with a goal of at least 16 hours", Satisfied: func(s model.Snapshot) bool {
		return anyFast(s, func(f model.FastingSession) bool { return f.GoalHours >= 16 })
	}},
	{ID: Sleep8h, Title: "Well Rested", Description: "Sleep at least 8 hours", Satisfied: func(s model.Snapshot) bool {
		for _, e := range s.Sleep {
			if e.DurationMinutes >= 480 {
				return true
			}
		}
		return false
	}},
	{ID: Streak3, Title: "On a Roll", Description: "Log something 3 days in a row", Satisfied: streakOf(3)},
	{ID: Streak7, Title: "Full Week", Description: "Log something 7 days in a row", Satisfied: streakOf(7)},
}

func anyFast(s model.Snapshot, pred func(model.FastingSession) bool) bool {
	for _, f := range s.Fasting {
		if f.Status == model.FastingCompleted && pred(f) {
			return true
		}
	}
	return false
}

func streakOf(days int) func(model.Snapshot) bool {
	return func(s model.Snapshot) bool {
		return LongestStreak(s) >= days
	}
}

func Lookup(id string) (Rule, bool) {
	for _, r := range Catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

type Engine struct {
	rules []Rule
}

// NewEngine uses Catalog when no rules are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = Catalog
	}
	return &Engine{rules: rules}
}

// Evaluate returns the ids whose predicate holds on s and that are not in
// earned, in catalogue order. It never returns an id from earned.
func (e *Engine) Evaluate(s model.Snapshot, earned []string) []string {
	have := make(map[string]bool, len(earned))
	for _, id := range earned {
		have[id] = true
	}
	out := make([]string, 0)
	for _, r := range e.rules {
		if have[r.ID] {
			continue
		}
		if r.Satisfied(s) {
			out = append(out, r.ID)
			have[r.ID] = true
		}
	}
	return out
}
