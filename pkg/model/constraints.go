package model

type constraintState struct {
	evaluator predicateEvaluator
	indexer   indexer

	// Feasible starts (day, period) of every activity
	starts [][][2]uint64

	activities,
	days,
	periods uint64
}

// Every activity starts somewhere
func completenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, state.activities)
	for activity, starts := range state.starts {
		clause := make([]int64, 0, len(starts))
		for _, start := range starts {
			clause = append(clause, int64(state.indexer.Index(uint64(activity), start[0], start[1])))
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// Every activity starts at most once
func uniquenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for activity, starts := range state.starts {
		for i := range starts {
			for j := i + 1; j < len(starts); j++ {
				clauses = append(clauses, []int64{
					-int64(state.indexer.Index(uint64(activity), starts[i][0], starts[i][1])),
					-int64(state.indexer.Index(uint64(activity), starts[j][0], starts[j][1])),
				})
			}
		}
	}
	return clauses
}

// Conflicting activities never overlap
func clashConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for activity1 := range state.activities {
		for activity2 := activity1 + 1; activity2 < state.activities; activity2++ {
			if !state.evaluator.Conflicting(activity1, activity2) {
				continue
			}

			for _, start1 := range state.starts[activity1] {
				for _, start2 := range state.starts[activity2] {
					if start1[0] != start2[0] || !state.evaluator.Overlap(activity1, start1[1], activity2, start2[1]) {
						continue
					}
					clauses = append(clauses, []int64{
						-int64(state.indexer.Index(activity1, start1[0], start1[1])),
						-int64(state.indexer.Index(activity2, start2[0], start2[1])),
					})
				}
			}
		}
	}
	return clauses
}
