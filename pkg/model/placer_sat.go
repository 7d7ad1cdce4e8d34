package model

import (
	"fmt"
	"slices"

	"github.com/limaJavier/lessonplan/pkg/sat"
)

type satPlacer struct {
	solver sat.SATSolver
}

func NewSatPlacer(solver sat.SATSolver) Placer {
	return &satPlacer{
		solver: solver,
	}
}

func (placer *satPlacer) Build(model *Model, grid Grid) ([]Placement, uint64, uint64, error) {
	//** Build SAT instance
	satInstance, explicitVariables, indexer, err := encode(model, grid)
	if err != nil {
		return nil, 0, 0, err
	}
	variables, clauses := satInstance.Variables, uint64(len(satInstance.Clauses))

	//** Solve SAT instance
	solution, err := placer.solver.Solve(satInstance)
	if err != nil {
		return nil, variables, clauses, err
	} else if solution == nil { // Return nil if the SAT instance is not satisfiable
		return nil, variables, clauses, nil
	} else if !satInstance.Satisfies(solution) {
		return nil, variables, clauses, fmt.Errorf("solver returned an assignment that does not satisfy the instance")
	}

	placements := make([]Placement, 0, model.Activities.Len())
	for _, variable := range solution {
		// Acknowledge only positive variables that are explicitly stated in the clauses
		if variable > 0 && explicitVariables[variable] {
			activity, day, period := indexer.Attributes(uint64(variable))
			placements = append(placements, Placement{Activity: int(activity), Day: int(day), Period: int(period)})
		}
	}
	slices.SortFunc(placements, func(a, b Placement) int { return a.Activity - b.Activity })

	return placements, variables, clauses, nil
}

func (placer *satPlacer) Verify(placements []Placement, model *Model, grid Grid) bool {
	return verify(placements, model, grid)
}
