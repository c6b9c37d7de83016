package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

type ActivityInput struct {
	ActivityName    string `validate:"required"`
	DurationMinutes int    `validate:"gt=0"`
	CaloriesBurned  int    `validate:"gte=0"`
}

func (t *Tracker) AddActivity(in ActivityInput) (model.ActivityEntry, error) {
	in.ActivityName = strings.TrimSpace(in.ActivityName)
	if err := validateInput(in); err != nil {
		return model.ActivityEntry{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("add activity") {
		return model.ActivityEntry{}, nil
	}
	now := t.clock()
	entry := model.ActivityEntry{
		ID:              t.newID(),
		ActivityName:    in.ActivityName,
		DurationMinutes: in.DurationMinutes,
		CaloriesBurned:  in.CaloriesBurned,
		Timestamp:       model.Millis(now),
	}
	if err := appendEntry(t, keyActivity, &t.st.activity, entry, now); err != nil {
		return entry, err
	}
	t.log.Debug("activity logged", zap.String("id", entry.ID), zap.String("activity", entry.ActivityName), zap.Int("minutes", entry.DurationMinutes))
	return entry, nil
}

func (t *Tracker) DeleteActivity(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("delete activity") {
		return nil
	}
	return removeEntry(t, keyActivity, "activity entry", &t.st.activity, id, func(e model.ActivityEntry) string { return e.ID })
}
