package service

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

const kgPerLb = 0.45359237

type WeightInput struct {
	Weight float64 `validate:"gt=0"`
	// Unit is kg or lb; empty means kg.
	Unit string `validate:"omitempty,oneof=kg lb lbs"`
}

// ProfilePatch updates only the non-nil fields.
type ProfilePatch struct {
	Age      *int     `validate:"omitempty,gt=0,lt=150"`
	WeightKg *float64 `validate:"omitempty,gt=0"`
	HeightCm *float64 `validate:"omitempty,gt=0"`
	Gender   *string  `validate:"omitempty,oneof=male female other"`
}

func (t *Tracker) AddWeight(in WeightInput) (model.WeightEntry, error) {
	in.Unit = normalizeName(in.Unit)
	if err := validateInput(in); err != nil {
		return model.WeightEntry{}, err
	}
	kg, err := ToKg(in.Weight, in.Unit)
	if err != nil {
		return model.WeightEntry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("add weight") {
		return model.WeightEntry{}, nil
	}
	now := t.clock()
	entry := model.WeightEntry{ID: t.newID(), WeightKg: kg, Timestamp: model.Millis(now)}
	if err := t.insertWeight(entry); err != nil {
		return entry, err
	}
	if err := t.touchFirstActivity(now); err != nil {
		return entry, err
	}
	t.log.Debug("weight logged", zap.String("id", entry.ID), zap.Float64("kg", kg))
	return entry, t.evaluate()
}

// insertWeight keeps the weight stream ordered by timestamp.
func (t *Tracker) insertWeight(entry model.WeightEntry) error {
	i, _ := slices.BinarySearchFunc(t.st.weight, entry.Timestamp, func(e model.WeightEntry, ts int64) int {
		if e.Timestamp <= ts {
			return -1
		}
		return 1
	})
	next := slices.Insert(slices.Clone(t.st.weight), i, entry)
	if err := t.put(keyWeight, next); err != nil {
		return err
	}
	t.st.weight = next
	return nil
}

func (t *Tracker) DeleteWeight(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("delete weight") {
		return nil
	}
	return removeEntry(t, keyWeight, "weight entry", &t.st.weight, id, func(e model.WeightEntry) string { return e.ID })
}

// UpdateProfile merges patch into the profile. A changed weight is also
// recorded as a new weight entry.
func (t *Tracker) UpdateProfile(patch ProfilePatch) (model.UserProfile, error) {
	if patch.Gender != nil {
		g := normalizeName(*patch.Gender)
		patch.Gender = &g
	}
	if err := validateInput(patch); err != nil {
		return model.UserProfile{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("update profile") {
		return model.UserProfile{}, nil
	}

	now := t.clock()
	synthesized := false
	cur := t.st.profile
	if patch.WeightKg != nil && (cur.WeightKg == nil || *cur.WeightKg != *patch.WeightKg) {
		entry := model.WeightEntry{ID: t.newID(), WeightKg: *patch.WeightKg, Timestamp: model.Millis(now)}
		if err := t.insertWeight(entry); err != nil {
			return cloneProfile(cur), err
		}
		if err := t.touchFirstActivity(now); err != nil {
			return cloneProfile(cur), err
		}
		synthesized = true
	}

	next := cloneProfile(cur)
	if patch.Age != nil {
		v := *patch.Age
		next.Age = &v
	}
	if patch.WeightKg != nil {
		v := *patch.WeightKg
		next.WeightKg = &v
	}
	if patch.HeightCm != nil {
		v := *patch.HeightCm
		next.HeightCm = &v
	}
	if patch.Gender != nil {
		v := *patch.Gender
		next.Gender = &v
	}
	if err := t.put(keyProfile, next); err != nil {
		return cloneProfile(cur), err
	}
	t.st.profile = next
	if synthesized {
		if err := t.evaluate(); err != nil {
			return cloneProfile(next), err
		}
	}
	return cloneProfile(next), nil
}

func cloneProfile(p model.UserProfile) model.UserProfile {
	out := model.UserProfile{}
	if p.Age != nil {
		v := *p.Age
		out.Age = &v
	}
	if p.WeightKg != nil {
		v := *p.WeightKg
		out.WeightKg = &v
	}
	if p.HeightCm != nil {
		v := *p.HeightCm
		out.HeightCm = &v
	}
	if p.Gender != nil {
		v := *p.Gender
		out.Gender = &v
	}
	return out
}

func ToKg(weight float64, unit string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "kg"
	}
	switch u {
	case "kg":
		return weight, nil
	case "lb", "lbs":
		return weight * kgPerLb, nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "kg"
	}
	switch u {
	case "kg":
		return weightKg, nil
	case "lb", "lbs":
		return weightKg / kgPerLb, nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}
