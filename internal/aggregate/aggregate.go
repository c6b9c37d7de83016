// Package aggregate turns log streams into fixed calendar buckets for charts
// and goal progress. Everything here is pure: inputs are never mutated.
package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Window string

const (
	Week  Window = "week"
	Month Window = "month"
	Year  Window = "year"
)

func ParseWindow(value string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(value))) {
	case Week, "":
		return Week, nil
	case Month:
		return Month, nil
	case Year:
		return Year, nil
	default:
		return "", fmt.Errorf("invalid window %q (use week, month, or year)", value)
	}
}

type Mode int

const (
	// Sum adds every entry that falls inside the bucket.
	Sum Mode = iota
	// Latest carries forward the most recent entry before the bucket end.
	Latest
)

// Point is one log entry reduced to a timestamp (ms) and a value.
type Point struct {
	Time  int64
	Value float64
}

// Bucket covers [Start, End). Value is nil only in Latest mode when no entry
// precedes End.
type Bucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Value *float64  `json:"value"`
}

// Spans returns the bucket boundaries for window, with the bucket containing
// now last. Boundaries use calendar arithmetic in now's location.
func Spans(window Window, now time.Time) []Bucket {
	loc := now.Location()
	y, m, d := now.Date()
	switch window {
	case Month:
		n := daysIn(m, y, loc)
		return dailySpans(y, m, d, n, loc, func(t time.Time) string {
			return strconv.Itoa(t.Day())
		})
	case Year:
		out := make([]Bucket, 0, 12)
		for i := 11; i >= 0; i-- {
			start := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, loc)
			end := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, loc)
			out = append(out, Bucket{Label: start.Format("Jan"), Start: start, End: end})
		}
		return out
	default:
		return dailySpans(y, m, d, 7, loc, func(t time.Time) string {
			return t.Format("Mon")
		})
	}
}

func dailySpans(y int, m time.Month, d, n int, loc *time.Location, label func(time.Time) string) []Bucket {
	out := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := time.Date(y, m, d-i, 0, 0, 0, 0, loc)
		end := time.Date(y, m, d-i+1, 0, 0, 0, 0, loc)
		out = append(out, Bucket{Label: label(start), Start: start, End: end})
	}
	return out
}

func daysIn(m time.Month, y int, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

// Aggregate fills the window's buckets from points using mode.
func Aggregate(points []Point, window Window, mode Mode, now time.Time) []Bucket {
	buckets := Spans(window, now)
	if mode == Latest {
		fillLatest(buckets, points)
		return buckets
	}
	fillSum(buckets, points)
	return buckets
}

func fillSum(buckets []Bucket, points []Point) {
	sums := make([]float64, len(buckets))
	for _, p := range points {
		if i := bucketIndex(buckets, p.Time); i >= 0 {
			sums[i] += p.Value
		}
	}
	for i := range buckets {
		v := sums[i]
		buckets[i].Value = &v
	}
}

func bucketIndex(buckets []Bucket, ms int64) int {
	i := sort.Search(len(buckets), func(i int) bool {
		return buckets[i].End.UnixMilli() > ms
	})
	if i == len(buckets) || ms < buckets[i].Start.UnixMilli() {
		return -1
	}
	return i
}

func fillLatest(buckets []Bucket, points []Point) {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	next := 0
	var last *float64
	for i := range buckets {
		end := buckets[i].End.UnixMilli()
		for next < len(sorted) && sorted[next].Time < end {
			v := sorted[next].Value
			last = &v
			next++
		}
		if last != nil {
			v := *last
			buckets[i].Value = &v
		}
	}
}

// Total sums the non-nil bucket values.
func Total(buckets []Bucket) float64 {
	total := 0.0
	for _, b := range buckets {
		if b.Value != nil {
			total += *b.Value
		}
	}
	return total
}

// Percent is goal progress capped at 100. A non-positive target yields 0.
func Percent(value, target float64) float64 {
	if target <= 0 || value <= 0 {
		return 0
	}
	pct := value / target * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// DayRange returns [start of day, start of next day) for t in t's location.
func DayRange(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// SumBetween adds values with start <= Time < end.
func SumBetween(points []Point, start, end time.Time) float64 {
	from, to := start.UnixMilli(), end.UnixMilli()
	total := 0.0
	for _, p := range points {
		if p.Time >= from && p.Time < to {
			total += p.Value
		}
	}
	return total
}
