package sat

import (
	"fmt"
	"io"
	"strings"
)

type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	s.WriteDIMACS(&builder)
	return builder.String()
}

// WriteDIMACS writes the instance in DIMACS-CNF format.
func (s SAT) WriteDIMACS(writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "p cnf %d %d\n", s.Variables, len(s.Clauses)); err != nil {
		return err
	}
	for _, clause := range s.Clauses {
		var builder strings.Builder
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
		if _, err := io.WriteString(writer, builder.String()); err != nil {
			return err
		}
	}
	return nil
}

// Satisfies checks that a solution is consistent (no literal together with
// its negation) and satisfies every clause.
func (s SAT) Satisfies(solution SATSolution) bool {
	literals := make(map[int64]bool)
	for _, literal := range solution {
		if literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	for _, clause := range s.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}

	return true
}
