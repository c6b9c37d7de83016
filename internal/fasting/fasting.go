// Package fasting holds the transitions of the single active fast. Functions
// take and return whole session slices and never modify their input.
package fasting

import (
	"errors"
	"fmt"
	"time"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

var (
	ErrAlreadyActive = errors.New("a fast is already active")
	ErrNotFound      = errors.New("fasting session not found")
)

// Policy selects how conflicting transitions are handled. The zero value
// lets a new start replace the active fast and lets delete remove it.
type Policy struct {
	Strict bool
}

func Active(sessions []model.FastingSession) (model.FastingSession, bool) {
	for _, s := range sessions {
		if s.Status == model.FastingActive {
			return s, true
		}
	}
	return model.FastingSession{}, false
}

// Start moves Idle to Active. Any active session is dropped unless the
// policy is strict.
func (p Policy) Start(sessions []model.FastingSession, next model.FastingSession) ([]model.FastingSession, error) {
	if next.GoalHours <= 0 {
		return nil, fmt.Errorf("goal hours must be > 0")
	}
	if _, ok := Active(sessions); ok && p.Strict {
		return nil, ErrAlreadyActive
	}
	next.Status = model.FastingActive
	next.EndTime = nil
	out := make([]model.FastingSession, 0, len(sessions)+1)
	for _, s := range sessions {
		if s.Status == model.FastingActive {
			continue
		}
		out = append(out, s)
	}
	return append(out, next), nil
}

// End completes the active session at now. ok is false when nothing was active.
func End(sessions []model.FastingSession, now int64) (out []model.FastingSession, ended model.FastingSession, ok bool) {
	out = make([]model.FastingSession, len(sessions))
	copy(out, sessions)
	for i := range out {
		if out[i].Status != model.FastingActive {
			continue
		}
		end := now
		if end < out[i].StartTime {
			end = out[i].StartTime
		}
		out[i].Status = model.FastingCompleted
		out[i].EndTime = &end
		return out, out[i], true
	}
	return out, model.FastingSession{}, false
}

// AddManual appends a finished session without touching the active one.
func AddManual(sessions []model.FastingSession, s model.FastingSession) ([]model.FastingSession, error) {
	if s.GoalHours <= 0 {
		return nil, fmt.Errorf("goal hours must be > 0")
	}
	if s.EndTime == nil {
		return nil, fmt.Errorf("end time is required for a logged fast")
	}
	if *s.EndTime < s.StartTime {
		return nil, fmt.Errorf("end time must not be before start time")
	}
	s.Status = model.FastingCompleted
	out := make([]model.FastingSession, 0, len(sessions)+1)
	out = append(out, sessions...)
	return append(out, s), nil
}

// Delete removes a session of any status. Removing the active one returns
// the machine to Idle unless the policy is strict.
func (p Policy) Delete(sessions []model.FastingSession, id string) ([]model.FastingSession, error) {
	out := make([]model.FastingSession, 0, len(sessions))
	found := false
	for _, s := range sessions {
		if s.ID != id {
			out = append(out, s)
			continue
		}
		if s.Status == model.FastingActive && p.Strict {
			return nil, ErrAlreadyActive
		}
		found = true
	}
	if !found {
		return nil, ErrNotFound
	}
	return out, nil
}

// Elapsed is the running duration of s at now. Completed sessions report
// their final length.
func Elapsed(s model.FastingSession, now time.Time) time.Duration {
	end := now.UnixMilli()
	if s.Status == model.FastingCompleted && s.EndTime != nil {
		end = *s.EndTime
	}
	if end < s.StartTime {
		return 0
	}
	return time.Duration(end-s.StartTime) * time.Millisecond
}

// Progress is elapsed time as a percentage of the goal, capped at 100.
func Progress(s model.FastingSession, now time.Time) float64 {
	if s.GoalHours <= 0 {
		return 0
	}
	pct := Elapsed(s, now).Hours() / s.GoalHours * 100
	if pct > 100 {
		return 100
	}
	return pct
}
