package fasting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADILE66/OptilifeAI-sub001/internal/fasting"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

func activeCount(sessions []model.FastingSession) int {
	n := 0
	for _, s := range sessions {
		if s.Status == model.FastingActive {
			n++
		}
	}
	return n
}

func TestStart_LastStartWins(t *testing.T) {
	var p fasting.Policy
	sessions, err := p.Start(nil, model.FastingSession{ID: "a", StartTime: 1000, GoalHours: 16})
	require.NoError(t, err)
	sessions, err = p.Start(sessions, model.FastingSession{ID: "b", StartTime: 2000, GoalHours: 18})
	require.NoError(t, err)

	assert.Equal(t, 1, activeCount(sessions))
	active, ok := fasting.Active(sessions)
	require.True(t, ok)
	assert.Equal(t, "b", active.ID)
	assert.Equal(t, 18.0, active.GoalHours)
	assert.Len(t, sessions, 1)
}

func TestStart_StrictRejectsSecondStart(t *testing.T) {
	p := fasting.Policy{Strict: true}
	sessions, err := p.Start(nil, model.FastingSession{ID: "a", StartTime: 1000, GoalHours: 16})
	require.NoError(t, err)

	_, err = p.Start(sessions, model.FastingSession{ID: "b", StartTime: 2000, GoalHours: 16})
	assert.ErrorIs(t, err, fasting.ErrAlreadyActive)
}

func TestEnd_CompletesActiveSession(t *testing.T) {
	var p fasting.Policy
	sessions, err := p.Start(nil, model.FastingSession{ID: "a", StartTime: 1000, GoalHours: 16})
	require.NoError(t, err)

	out, ended, ok := fasting.End(sessions, 5000)
	require.True(t, ok)
	assert.Equal(t, model.FastingCompleted, ended.Status)
	require.NotNil(t, ended.EndTime)
	assert.Equal(t, int64(5000), *ended.EndTime)
	assert.Equal(t, 0, activeCount(out))
	assert.Equal(t, model.FastingActive, sessions[0].Status, "input must not change")
}

func TestEnd_NoopWhenIdle(t *testing.T) {
	end := int64(10)
	sessions := []model.FastingSession{{ID: "x", StartTime: 1, EndTime: &end, GoalHours: 12, Status: model.FastingCompleted}}

	out, _, ok := fasting.End(sessions, 99)
	assert.False(t, ok)
	assert.Equal(t, sessions, out)
}

func TestAddManual_KeepsActiveSession(t *testing.T) {
	var p fasting.Policy
	sessions, err := p.Start(nil, model.FastingSession{ID: "a", StartTime: 1000, GoalHours: 16})
	require.NoError(t, err)

	end := int64(900)
	sessions, err = fasting.AddManual(sessions, model.FastingSession{ID: "m", StartTime: 100, EndTime: &end, GoalHours: 12})
	require.NoError(t, err)

	assert.Len(t, sessions, 2)
	assert.Equal(t, 1, activeCount(sessions))
	assert.Equal(t, model.FastingCompleted, sessions[1].Status)
}

func TestAddManual_RejectsEndBeforeStart(t *testing.T) {
	end := int64(50)
	_, err := fasting.AddManual(nil, model.FastingSession{ID: "m", StartTime: 100, EndTime: &end, GoalHours: 12})
	assert.Error(t, err)
}

func TestDelete_ActiveSessionReturnsToIdle(t *testing.T) {
	var p fasting.Policy
	sessions, err := p.Start(nil, model.FastingSession{ID: "a", StartTime: 1000, GoalHours: 16})
	require.NoError(t, err)

	sessions, err = p.Delete(sessions, "a")
	require.NoError(t, err)
	_, ok := fasting.Active(sessions)
	assert.False(t, ok)

	_, err = p.Delete(sessions, "a")
	assert.ErrorIs(t, err, fasting.ErrNotFound)
}

func TestDelete_StrictRequiresEnd(t *testing.T) {
	p := fasting.Policy{Strict: true}
	sessions, err := p.Start(nil, model.FastingSession{ID: "a", StartTime: 1000, GoalHours: 16})
	require.NoError(t, err)

	_, err = p.Delete(sessions, "a")
	assert.ErrorIs(t, err, fasting.ErrAlreadyActive)
}

func TestElapsedAndProgress(t *testing.T) {
	start := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	s := model.FastingSession{ID: "a", StartTime: start.UnixMilli(), GoalHours: 16, Status: model.FastingActive}

	now := start.Add(4 * time.Hour)
	assert.Equal(t, 4*time.Hour, fasting.Elapsed(s, now))
	assert.InDelta(t, 25.0, fasting.Progress(s, now), 0.0001)
	assert.Equal(t, 100.0, fasting.Progress(s, start.Add(20*time.Hour)))
}
