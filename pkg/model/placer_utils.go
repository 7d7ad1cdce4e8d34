package model

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/limaJavier/lessonplan/pkg/sat"
)

var (
	ErrInvalidGrid = errors.New("invalid grid")
	ErrUnplaceable = errors.New("activity has no feasible start in the grid")
)

// EncodePlacement returns the SAT instance whose models are the placements of
// the model's activities on the grid.
func EncodePlacement(model *Model, grid Grid) (sat.SAT, error) {
	satInstance, _, _, err := encode(model, grid)
	return satInstance, err
}

func encode(model *Model, grid Grid) (sat.SAT, map[int64]bool, indexer, error) {
	if grid.Days <= 0 || grid.Periods <= 0 {
		return sat.SAT{}, nil, nil, fmt.Errorf("%w: %v days of %v periods", ErrInvalidGrid, grid.Days, grid.Periods)
	}

	//** Extract attributes's domains
	totalActivities, totalDays, totalPeriods := uint64(model.Activities.Len()), uint64(grid.Days), uint64(grid.Periods)

	//** Initialize dependencies
	evaluator := newPredicateEvaluator(model, grid)
	indexer := newIndexer(totalActivities, totalDays, totalPeriods)
	generator := newPermutationGenerator(totalActivities, totalDays, totalPeriods)

	//** Collect feasible starts
	starts := make([][][2]uint64, totalActivities)
	permutations := generator.ConstrainedPermutations([]func(permutation []uint64) bool{
		// Allowed(a, d, t) = 1
		func(permutation []uint64) bool {
			activity, day, period := permutation[0], permutation[1], permutation[2]

			return activity == math.MaxUint64 ||
				day == math.MaxUint64 ||
				period == math.MaxUint64 ||

				// Actual predicate
				evaluator.Allowed(activity, day, period)
		},
	})
	for _, permutation := range permutations {
		starts[permutation[0]] = append(starts[permutation[0]], [2]uint64{permutation[1], permutation[2]})
	}
	for activity, activityStarts := range starts {
		if len(activityStarts) == 0 {
			return sat.SAT{}, nil, nil, fmt.Errorf("%w: activity %v of lesson-group %q", ErrUnplaceable, activity, model.Activities.At(activity).LessonGroup)
		}
	}

	// Constraints functions
	constraints := []func(state constraintState) [][]int64{
		completenessConstraints,
		uniquenessConstraints,
		clashConstraints,
	}

	state := constraintState{
		evaluator:  evaluator,
		indexer:    indexer,
		starts:     starts,
		activities: totalActivities,
		days:       totalDays,
		periods:    totalPeriods,
	}

	//** Build SAT instance
	variables := totalActivities * totalDays * totalPeriods
	satInstance, explicitVariables := buildSat(variables, constraints, state)
	return satInstance, explicitVariables, indexer, nil
}

func buildSat(variables uint64, constraints []func(state constraintState) [][]int64, state constraintState) (satInstance sat.SAT, explicitVariables map[int64]bool) {
	satInstance = sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	// Execute constraints functions on different goroutines, each one writing its own slot so clause order does not depend on scheduling
	generated := make([][][]int64, len(constraints))
	var wg sync.WaitGroup
	for i, constraint := range constraints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			generated[i] = constraint(state)
		}()
	}
	wg.Wait()

	explicitVariables = make(map[int64]bool) // Variables that are explicitly stated in the clauses
	for _, clauses := range generated {
		for _, clause := range clauses {
			for _, variable := range clause {
				// Check whether the variable is positive, since required explicit variables ought to be positive
				if variable > 0 {
					explicitVariables[variable] = true
				}
			}
		}
		// Append clauses to the SAT instance
		satInstance.Clauses = append(satInstance.Clauses, clauses...)
	}

	return satInstance, explicitVariables
}

func verify(placements []Placement, model *Model, grid Grid) bool {
	if grid.Days <= 0 || grid.Periods <= 0 {
		return false
	}
	evaluator := newPredicateEvaluator(model, grid)

	placed := make(map[int]bool)
	for _, placement := range placements {
		// Check that:
		// - The activity exists and is placed only once
		// - The start is allowed (fits in the day, respects a fixed time)
		if placement.Activity < 0 || placement.Activity >= model.Activities.Len() ||
			placed[placement.Activity] ||
			placement.Day < 0 || placement.Period < 0 ||
			!evaluator.Allowed(uint64(placement.Activity), uint64(placement.Day), uint64(placement.Period)) {
			return false
		}
		placed[placement.Activity] = true
	}

	// Check that every activity is placed
	if len(placed) != model.Activities.Len() {
		return false
	}

	// Check that no conflicting activities overlap
	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			first, second := placements[i], placements[j]
			if first.Day == second.Day &&
				evaluator.Conflicting(uint64(first.Activity), uint64(second.Activity)) &&
				evaluator.Overlap(uint64(first.Activity), uint64(first.Period), uint64(second.Activity), uint64(second.Period)) {
				return false
			}
		}
	}
	return true
}
