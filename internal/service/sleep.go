package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

type SleepInput struct {
	StartTime string `validate:"required,hhmm"`
	EndTime   string `validate:"required,hhmm"`
	Quality   string `validate:"oneof=bad average good excellent"`
}

// SleepDuration returns the minutes between two HH:MM clock values. A wake
// time earlier than bedtime means the night crossed midnight.
func SleepDuration(start, end string) (int, error) {
	from, err := parseClock(start)
	if err != nil {
		return 0, err
	}
	to, err := parseClock(end)
	if err != nil {
		return 0, err
	}
	minutes := to - from
	if minutes < 0 {
		minutes += 24 * 60
	}
	return minutes, nil
}

func (t *Tracker) AddSleep(in SleepInput) (model.SleepEntry, error) {
	in.Quality = normalizeName(in.Quality)
	if in.Quality == "" {
		in.Quality = string(model.SleepAverage)
	}
	if err := validateInput(in); err != nil {
		return model.SleepEntry{}, err
	}
	minutes, err := SleepDuration(in.StartTime, in.EndTime)
	if err != nil {
		return model.SleepEntry{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("add sleep") {
		return model.SleepEntry{}, nil
	}
	now := t.clock()
	entry := model.SleepEntry{
		ID:              t.newID(),
		StartTime:       strings.TrimSpace(in.StartTime),
		EndTime:         strings.TrimSpace(in.EndTime),
		DurationMinutes: minutes,
		Quality:         model.SleepQuality(in.Quality),
		Timestamp:       model.Millis(now),
	}
	if err := appendEntry(t, keySleep, &t.st.sleep, entry, now); err != nil {
		return entry, err
	}
	t.log.Debug("sleep logged", zap.String("id", entry.ID), zap.Int("minutes", minutes))
	return entry, nil
}

func (t *Tracker) DeleteSleep(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("delete sleep") {
		return nil
	}
	return removeEntry(t, keySleep, "sleep entry", &t.st.sleep, id, func(e model.SleepEntry) string { return e.ID })
}
