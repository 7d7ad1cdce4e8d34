package model

type predicateEvaluator interface {
	// Checks whether the activity may start at the given day and period: all its periods fit in the day and a fixed time is respected
	Allowed(activity, day, period uint64) bool

	// Checks whether activity1 and activity2 cannot run simultaneously (common teacher, common pupils or common fixed room)
	Conflicting(activity1, activity2 uint64) bool

	// Checks whether activity1 starting at period1 and activity2 starting at period2 of the same day overlap
	Overlap(activity1, period1, activity2, period2 uint64) bool
}

func newPredicateEvaluator(model *Model, grid Grid) predicateEvaluator {
	return &predicateEvaluatorStandard{
		activities: model.Activities,
		days:       uint64(grid.Days),
		periods:    uint64(grid.Periods),
	}
}
