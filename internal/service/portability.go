package service

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

const exportVersion = 1

type ExportData struct {
	Version       int                `json:"version"`
	User          string             `json:"user"`
	ExportedAt    string             `json:"exported_at"`
	Streams       model.Streams      `json:"streams"`
	Goals         *model.UserGoals   `json:"goals,omitempty"`
	Profile       *model.UserProfile `json:"profile,omitempty"`
	EarnedBadges  []string           `json:"earned_badges"`
	FirstActivity *int64             `json:"first_activity,omitempty"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func ParseImportMode(value string) (ImportMode, error) {
	switch ImportMode(normalizeName(value)) {
	case "", ImportModeMerge:
		return ImportModeMerge, nil
	case ImportModeFail:
		return ImportModeFail, nil
	case ImportModeReplace:
		return ImportModeReplace, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (use fail, merge, or replace)", value)
	}
}

// Export returns a self-contained copy of the active user's data.
func (t *Tracker) Export() *ExportData {
	t.mu.Lock()
	defer t.mu.Unlock()
	goals := t.st.goals
	profile := cloneProfile(t.st.profile)
	snap := t.snapshot()
	return &ExportData{
		Version:       exportVersion,
		User:          t.user,
		ExportedAt:    t.clock().UTC().Format(time.RFC3339),
		Streams:       snap.Streams,
		Goals:         &goals,
		Profile:       &profile,
		EarnedBadges:  slices.Clone(t.st.earned),
		FirstActivity: snap.FirstActivity,
	}
}

// Import loads data into the active user. Replace swaps every stream, goals
// and profile; merge adds entries with unseen ids; fail rejects any id
// conflict. Earned badges are never removed.
func (t *Tracker) Import(data *ExportData, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, fmt.Errorf("%w: import data is required", ErrInvalidInput)
	}
	if data.Version > exportVersion {
		return report, fmt.Errorf("%w: unsupported export version %d", ErrInvalidInput, data.Version)
	}
	if issues := CheckStreams(data.Streams); len(issues) > 0 {
		return report, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(issues, "; "))
	}
	if data.Goals != nil {
		if err := validateGoals(*data.Goals); err != nil {
			return report, fmt.Errorf("import goals: %w", err)
		}
	}
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeMerge
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("import") {
		return report, nil
	}

	next := t.st
	switch mode {
	case ImportModeReplace:
		next.water = slices.Clone(data.Streams.Water)
		next.food = slices.Clone(data.Streams.Food)
		next.activity = slices.Clone(data.Streams.Activity)
		next.fasting = slices.Clone(data.Streams.Fasting)
		next.sleep = slices.Clone(data.Streams.Sleep)
		next.weight = slices.Clone(data.Streams.Weight)
		next.goals = model.DefaultGoals()
		if data.Goals != nil {
			next.goals = *data.Goals
		}
		next.profile = model.UserProfile{}
		if data.Profile != nil {
			next.profile = cloneProfile(*data.Profile)
		}
		report.Inserted = countEntries(data.Streams)
	case ImportModeMerge, ImportModeFail:
		var counts [6][2]int
		next.water, counts[0] = mergeByID(t.st.water, data.Streams.Water, func(e model.WaterEntry) string { return e.ID })
		next.food, counts[1] = mergeByID(t.st.food, data.Streams.Food, func(e model.FoodEntry) string { return e.ID })
		next.activity, counts[2] = mergeByID(t.st.activity, data.Streams.Activity, func(e model.ActivityEntry) string { return e.ID })
		next.fasting, counts[3] = mergeFasting(t.st.fasting, data.Streams.Fasting, &report)
		next.sleep, counts[4] = mergeByID(t.st.sleep, data.Streams.Sleep, func(e model.SleepEntry) string { return e.ID })
		next.weight, counts[5] = mergeByID(t.st.weight, data.Streams.Weight, func(e model.WeightEntry) string { return e.ID })
		for _, c := range counts {
			report.Inserted += c[0]
			report.Conflicts += c[1]
		}
		if mode == ImportModeFail && report.Conflicts > 0 {
			return report, fmt.Errorf("import has %d conflicting entries; use --mode merge or replace", report.Conflicts)
		}
		report.Skipped = report.Conflicts
	default:
		return report, fmt.Errorf("%w: invalid import mode %q", ErrInvalidInput, mode)
	}
	slices.SortStableFunc(next.weight, func(a, b model.WeightEntry) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	next.earned = slices.Clone(t.st.earned)
	for _, id := range data.EarnedBadges {
		if _, ok := badge.Lookup(id); !ok {
			report.Warnings = append(report.Warnings, fmt.Sprintf("unknown badge %q ignored", id))
			continue
		}
		if !slices.Contains(next.earned, id) {
			next.earned = append(next.earned, id)
		}
	}
	if next.firstActivity == nil {
		if data.FirstActivity != nil {
			v := *data.FirstActivity
			next.firstActivity = &v
		} else if countEntries(data.Streams) > 0 {
			v := model.Millis(t.clock())
			next.firstActivity = &v
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := t.writeState(next); err != nil {
		return report, err
	}
	t.st = next
	t.log.Info("import applied", zap.String("user", t.user), zap.String("mode", string(mode)),
		zap.Int("inserted", report.Inserted), zap.Int("skipped", report.Skipped))
	return report, t.evaluate()
}

// writeState persists every key of st in one batch.
func (t *Tracker) writeState(st state) error {
	docs := map[string]any{
		keyWater:    st.water,
		keyFood:     st.food,
		keyActivity: st.activity,
		keyFasting:  st.fasting,
		keySleep:    st.sleep,
		keyWeight:   st.weight,
		keyGoals:    st.goals,
		keyProfile:  st.profile,
		keyBadges:   badgeState{Earned: st.earned, Queue: st.queue},
	}
	if st.firstActivity != nil {
		docs[keyFirstActivity] = *st.firstActivity
	}
	values := make(map[string][]byte, len(docs))
	for key, v := range docs {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = raw
	}
	if err := storage.SetMany(t.ns, values); err != nil {
		return fmt.Errorf("persist import: %w", err)
	}
	return nil
}

// mergeByID appends incoming entries whose id is not already present.
// The returned pair is (inserted, conflicts).
func mergeByID[T any](cur, incoming []T, idOf func(T) string) ([]T, [2]int) {
	seen := make(map[string]struct{}, len(cur))
	for _, e := range cur {
		seen[idOf(e)] = struct{}{}
	}
	out := slices.Clone(cur)
	var counts [2]int
	for _, e := range incoming {
		if _, ok := seen[idOf(e)]; ok {
			counts[1]++
			continue
		}
		seen[idOf(e)] = struct{}{}
		out = append(out, e)
		counts[0]++
	}
	return out, counts
}

// mergeFasting is mergeByID that also keeps at most one active session:
// an incoming active fast is skipped when one is already running.
func mergeFasting(cur, incoming []model.FastingSession, report *ImportReport) ([]model.FastingSession, [2]int) {
	out, counts := mergeByID(cur, incoming, func(s model.FastingSession) string { return s.ID })
	active := 0
	kept := out[:0:0]
	for i, s := range out {
		if s.Status == model.FastingActive {
			active++
			if active > 1 {
				report.Warnings = append(report.Warnings, fmt.Sprintf("active fast %s skipped: another fast is running", s.ID))
				if i >= len(cur) {
					counts[0]--
				}
				counts[1]++
				continue
			}
		}
		kept = append(kept, s)
	}
	return kept, counts
}

func countEntries(s model.Streams) int {
	return len(s.Water) + len(s.Food) + len(s.Activity) + len(s.Fasting) + len(s.Sleep) + len(s.Weight)
}
