package service

import (
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
)

// GoalsPatch updates only the non-nil targets.
type GoalsPatch struct {
	Calories        *float64 `validate:"omitempty,gt=0"`
	Protein         *float64 `validate:"omitempty,gt=0"`
	Carbs           *float64 `validate:"omitempty,gt=0"`
	Fat             *float64 `validate:"omitempty,gt=0"`
	WaterMl         *float64 `validate:"omitempty,gt=0"`
	ActivityMinutes *float64 `validate:"omitempty,gt=0"`
	FastingHours    *float64 `validate:"omitempty,gt=0,lte=168"`
	Weight          *float64 `validate:"omitempty,gt=0"`
	SleepHours      *float64 `validate:"omitempty,gt=0,lte=24"`
}

// validateGoals applies the patch rules to a complete goal set.
func validateGoals(g model.UserGoals) error {
	return validateInput(GoalsPatch{
		Calories:        &g.Calories,
		Protein:         &g.Protein,
		Carbs:           &g.Carbs,
		Fat:             &g.Fat,
		WaterMl:         &g.WaterMl,
		ActivityMinutes: &g.ActivityMinutes,
		FastingHours:    &g.FastingHours,
		Weight:          &g.Weight,
		SleepHours:      &g.SleepHours,
	})
}

func (p GoalsPatch) apply(g model.UserGoals) model.UserGoals {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&g.Calories, p.Calories)
	set(&g.Protein, p.Protein)
	set(&g.Carbs, p.Carbs)
	set(&g.Fat, p.Fat)
	set(&g.WaterMl, p.WaterMl)
	set(&g.ActivityMinutes, p.ActivityMinutes)
	set(&g.FastingHours, p.FastingHours)
	set(&g.Weight, p.Weight)
	set(&g.SleepHours, p.SleepHours)
	return g
}

func (t *Tracker) UpdateGoals(patch GoalsPatch) (model.UserGoals, error) {
	if err := validateInput(patch); err != nil {
		return model.UserGoals{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active("update goals") {
		return model.UserGoals{}, nil
	}
	next := patch.apply(t.st.goals)
	if err := t.put(keyGoals, next); err != nil {
		return t.st.goals, err
	}
	t.st.goals = next
	return next, nil
}
