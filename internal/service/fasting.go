package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/fasting"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

type FastStartInput struct {
	GoalHours float64 `validate:"gt=0,lte=168"`
}

type FastLogInput struct {
	StartTime time.Time `validate:"required"`
	EndTime   time.Time `validate:"required,gtefield=StartTime"`
	GoalHours float64   `validate:"gt=0,lte=168"`
}

// StartFast begins a fast now. An active fast is replaced unless the tracker
// is strict, in which case fasting.ErrAlreadyActive is returned.
func (t *Tracker) StartFast(in FastStartInput) (model.FastingSession, error) {
	if err := validateInput(in); err != nil {
		return model.FastingSession{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("start fast") {
		return model.FastingSession{}, nil
	}
	now := t.clock()
	session := model.FastingSession{ID: t.newID(), StartTime: model.Millis(now), GoalHours: in.GoalHours}
	if prev, ok := fasting.Active(t.st.fasting); ok && !t.policy.Strict {
		t.log.Info("replacing active fast", zap.String("previous", prev.ID))
	}
	next, err := t.policy.Start(t.st.fasting, session)
	if err != nil {
		return model.FastingSession{}, err
	}
	if err := t.put(keyFasting, next); err != nil {
		return model.FastingSession{}, err
	}
	t.st.fasting = next
	session.Status = model.FastingActive
	if err := t.touchFirstActivity(now); err != nil {
		return session, err
	}
	return session, t.evaluate()
}

// EndFast completes the active fast. ok is false when none was running.
func (t *Tracker) EndFast() (model.FastingSession, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("end fast") {
		return model.FastingSession{}, false, nil
	}
	next, ended, ok := fasting.End(t.st.fasting, model.Millis(t.clock()))
	if !ok {
		return model.FastingSession{}, false, nil
	}
	if err := t.put(keyFasting, next); err != nil {
		return model.FastingSession{}, false, err
	}
	t.st.fasting = next
	t.log.Debug("fast ended", zap.String("id", ended.ID))
	return ended, true, t.evaluate()
}

// AddFastLog records an already finished fast. The active fast, if any,
// is left alone.
func (t *Tracker) AddFastLog(in FastLogInput) (model.FastingSession, error) {
	if err := validateInput(in); err != nil {
		return model.FastingSession{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("log fast") {
		return model.FastingSession{}, nil
	}
	end := model.Millis(in.EndTime)
	session := model.FastingSession{
		ID:        t.newID(),
		StartTime: model.Millis(in.StartTime),
		EndTime:   &end,
		GoalHours: in.GoalHours,
	}
	next, err := fasting.AddManual(t.st.fasting, session)
	if err != nil {
		return model.FastingSession{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := t.put(keyFasting, next); err != nil {
		return model.FastingSession{}, err
	}
	t.st.fasting = next
	session.Status = model.FastingCompleted
	if err := t.touchFirstActivity(t.clock()); err != nil {
		return session, err
	}
	return session, t.evaluate()
}

func (t *Tracker) DeleteFast(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("delete fast") {
		return nil
	}
	next, err := t.policy.Delete(t.st.fasting, id)
	if errors.Is(err, fasting.ErrNotFound) {
		return fmt.Errorf("fasting session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := t.put(keyFasting, next); err != nil {
		return err
	}
	t.st.fasting = next
	return nil
}

func (t *Tracker) ActiveFast() (model.FastingSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fasting.Active(t.st.fasting)
}
