package service

import (
	"slices"

	"go.uber.org/zap"
)

// badgeState is the persisted form of earned and pending badge ids. Both
// lists live in one blob so a failed write cannot split them.
type badgeState struct {
	Earned []string `json:"earned"`
	Queue  []string `json:"queue"`
}

func (b badgeState) ids() (earned, queue []string) {
	earned, queue = b.Earned, b.Queue
	if earned == nil {
		earned = []string{}
	}
	if queue == nil {
		queue = []string{}
	}
	return earned, queue
}

// evaluate runs the rule engine over the current state and queues every
// newly satisfied badge. Callers hold t.mu.
func (t *Tracker) evaluate() error {
	newly := t.engine.Evaluate(t.snapshot(), t.st.earned)
	if len(newly) == 0 {
		return nil
	}
	earned := append(slices.Clone(t.st.earned), newly...)
	queue := append(slices.Clone(t.st.queue), newly...)
	if err := t.put(keyBadges, badgeState{Earned: earned, Queue: queue}); err != nil {
		return err
	}
	t.st.earned = earned
	t.st.queue = queue
	for _, id := range newly {
		t.log.Info("badge earned", zap.String("user", t.user), zap.String("badge", id))
	}
	return nil
}

// EarnedBadges lists badge ids in the order they were earned.
func (t *Tracker) EarnedBadges() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.earned)
}

// PendingBadges lists earned badges not yet shown to the user, oldest first.
func (t *Tracker) PendingBadges() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.st.queue)
}

// DismissBadge pops the head of the notification queue.
func (t *Tracker) DismissBadge() (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("dismiss badge") || len(t.st.queue) == 0 {
		return "", false, nil
	}
	head := t.st.queue[0]
	next := slices.Clone(t.st.queue[1:])
	if err := t.put(keyBadges, badgeState{Earned: t.st.earned, Queue: next}); err != nil {
		return "", false, err
	}
	t.st.queue = next
	return head, true, nil
}
