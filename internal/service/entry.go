package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

type WaterInput struct {
	AmountMl int `validate:"gt=0"`
}

type FoodInput struct {
	Name     string `validate:"required"`
	Portion  string
	Macros   MacrosInput
	ImageRef *string
}

type MacrosInput struct {
	Calories float64 `validate:"gte=0"`
	Protein  float64 `validate:"gte=0"`
	Carbs    float64 `validate:"gte=0"`
	Fat      float64 `validate:"gte=0"`
}

func (t *Tracker) AddWater(in WaterInput) (model.WaterEntry, error) {
	if err := validateInput(in); err != nil {
		return model.WaterEntry{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("add water") {
		return model.WaterEntry{}, nil
	}
	now := t.clock()
	entry := model.WaterEntry{ID: t.newID(), AmountMl: in.AmountMl, Timestamp: model.Millis(now)}
	if err := appendEntry(t, keyWater, &t.st.water, entry, now); err != nil {
		return entry, err
	}
	t.log.Debug("water logged", zap.String("id", entry.ID), zap.Int("ml", entry.AmountMl))
	return entry, nil
}

func (t *Tracker) DeleteWater(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("delete water") {
		return nil
	}
	return removeEntry(t, keyWater, "water entry", &t.st.water, id, func(e model.WaterEntry) string { return e.ID })
}

func (t *Tracker) AddFood(in FoodInput) (model.FoodEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return model.FoodEntry{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("add food") {
		return model.FoodEntry{}, nil
	}
	now := t.clock()
	entry := model.FoodEntry{
		ID:      t.newID(),
		Name:    in.Name,
		Portion: strings.TrimSpace(in.Portion),
		Macros: model.Macros{
			Calories: in.Macros.Calories,
			Protein:  in.Macros.Protein,
			Carbs:    in.Macros.Carbs,
			Fat:      in.Macros.Fat,
		},
		ImageRef:  in.ImageRef,
		Timestamp: model.Millis(now),
	}
	if err := appendEntry(t, keyFood, &t.st.food, entry, now); err != nil {
		return entry, err
	}
	t.log.Debug("food logged", zap.String("id", entry.ID), zap.String("name", entry.Name))
	return entry, nil
}

func (t *Tracker) DeleteFood(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("delete food") {
		return nil
	}
	return removeEntry(t, keyFood, "food entry", &t.st.food, id, func(e model.FoodEntry) string { return e.ID })
}
