package journal

import "github.com/heartmarshall/foodtracker-backend/internal/domain"

// Observer receives journal change notifications after each mutation has
// been applied (and saved). Callbacks run outside the service lock and may
// call back into the Service.
type Observer interface {
	MealInserted(index int, meal *domain.Meal)
	MealUpdated(index int, meal *domain.Meal)
	MealRemoved(index int)
	Reloaded(meals []*domain.Meal)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnInsert func(index int, meal *domain.Meal)
	OnUpdate func(index int, meal *domain.Meal)
	OnRemove func(index int)
	OnReload func(meals []*domain.Meal)
}

var _ Observer = ObserverFuncs{}

func (f ObserverFuncs) MealInserted(index int, meal *domain.Meal) {
	if f.OnInsert != nil {
		f.OnInsert(index, meal)
	}
}

func (f ObserverFuncs) MealUpdated(index int, meal *domain.Meal) {
	if f.OnUpdate != nil {
		f.OnUpdate(index, meal)
	}
}

func (f ObserverFuncs) MealRemoved(index int) {
	if f.OnRemove != nil {
		f.OnRemove(index)
	}
}

func (f ObserverFuncs) Reloaded(meals []*domain.Meal) {
	if f.OnReload != nil {
		f.OnReload(meals)
	}
}
