package badge

import (
	"sort"
	"time"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

// LogDays returns the distinct local calendar days (as midnight times) on
// which anything was logged, ascending.
func LogDays(s model.Snapshot) []time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	seen := map[time.Time]bool{}
	add := func(ms int64) {
		t := time.UnixMilli(ms).In(loc)
		y, m, d := t.Date()
		seen[time.Date(y, m, d, 0, 0, 0, 0, loc)] = true
	}
	for _, e := range s.Water {
		add(e.Timestamp)
	}
	for _, e := range s.Food {
		add(e.Timestamp)
	}
	for _, e := range s.Activity {
		add(e.Timestamp)
	}
	for _, e := range s.Sleep {
		add(e.Timestamp)
	}
	for _, e := range s.Weight {
		add(e.Timestamp)
	}
	for _, f := range s.Fasting {
		add(f.StartTime)
		if f.EndTime != nil {
			add(*f.EndTime)
		}
	}
	if s.FirstActivity != nil {
		add(*s.FirstActivity)
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// LongestStreak is the longest run of consecutive calendar log days.
func LongestStreak(s model.Snapshot) int {
	days := LogDays(s)
	longest, run := 0, 0
	for i := range days {
		if i > 0 && isNextDay(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func isNextDay(prev, cur time.Time) bool {
	y, m, d := prev.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, prev.Location()).Equal(cur)
}
