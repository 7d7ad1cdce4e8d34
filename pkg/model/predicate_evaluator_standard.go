package model

type predicateEvaluatorStandard struct {
	activities    *Activities
	days, periods uint64
}

func (evaluator *predicateEvaluatorStandard) length(activity uint64) uint64 {
	return uint64(evaluator.activities.At(int(activity)).Length)
}

func (evaluator *predicateEvaluatorStandard) Allowed(activity, day, period uint64) bool {
	if day >= evaluator.days || period+evaluator.length(activity) > evaluator.periods {
		return false
	}

	fixed := evaluator.activities.At(int(activity)).Time
	return fixed == nil || (uint64(fixed.Day) == day && uint64(fixed.Period) == period)
}

func (evaluator *predicateEvaluatorStandard) Conflicting(activity1, activity2 uint64) bool {
	first, second := evaluator.activities.At(int(activity1)), evaluator.activities.At(int(activity2))
	return first.Clashes(second) || first.SharesRoom(second)
}

func (evaluator *predicateEvaluatorStandard) Overlap(activity1, period1, activity2, period2 uint64) bool {
	return period1 < period2+evaluator.length(activity2) && period2 < period1+evaluator.length(activity1)
}
