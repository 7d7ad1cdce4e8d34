package sat

import (
	"bytes"
	"math/rand/v2"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSATInstance(literals uint64, clauses int) SAT {
	satInstance := SAT{
		Variables: literals,
		Clauses:   make([][]int64, clauses),
	}

	for i := range clauses {
		satInstance.Clauses[i] = make([]int64, 0, literals)
		for j := range literals {
			if rand.Float32() < 0.5 {
				var sign int64 = 1
				if rand.Float32() < 0.5 {
					sign = -1
				}
				satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+int64(j)))
			}
		}

		if len(satInstance.Clauses[i]) == 0 {
			satInstance.Clauses[i] = append(satInstance.Clauses[i], 1+rand.Int64N(int64(literals)))
		}
	}

	return satInstance
}

func TestToDIMACS(t *testing.T) {
	//** Arrange
	instance := SAT{Variables: 3, Clauses: [][]int64{{1, -2}, {3}, {-1, 2, -3}}}

	//** Act
	dimacs := instance.ToDIMACS()

	//** Assert
	assert.Equal(t, "p cnf 3 3\n1 -2 0\n3 0\n-1 2 -3 0\n", dimacs)

	var buffer bytes.Buffer
	require.NoError(t, instance.WriteDIMACS(&buffer))
	assert.Equal(t, dimacs, buffer.String())
}

func TestSatisfies(t *testing.T) {
	instance := SAT{Variables: 3, Clauses: [][]int64{{1, -2}, {3}, {-1, 2, -3}}}

	assert.True(t, instance.Satisfies(SATSolution{1, 2, 3}))
	assert.True(t, instance.Satisfies(SATSolution{-1, -2, 3}))
	assert.False(t, instance.Satisfies(SATSolution{1, -2, 3}))
	assert.False(t, instance.Satisfies(SATSolution{1, 2, 3, -3}))
	assert.False(t, instance.Satisfies(SATSolution{}))
}

func TestParseSolution(t *testing.T) {
	//** Arrange
	output := "c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 5 0\n"

	//** Act
	solution, err := parseSolution(output)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2, 3, -4, 5}, solution)

	solution, err = parseSolution("s SATISFIABLE\nv 0\n")
	require.NoError(t, err)
	assert.Empty(t, solution)

	_, err = parseSolution("v 1 x 0\n")
	assert.Error(t, err)
}

func TestParseMinisatSolution(t *testing.T) {
	solution, err := parseMinisatSolution("SAT\n1 -2 3 0\n")
	require.NoError(t, err)
	assert.Equal(t, SATSolution{1, -2, 3}, solution)

	_, err = parseMinisatSolution("UNSAT\n")
	assert.Error(t, err)
}

func TestSolvers(t *testing.T) {
	for name, constructor := range Solvers {
		t.Run(name, func(t *testing.T) {
			if _, err := exec.LookPath(name); err != nil {
				t.Skipf("%v is not installed", name)
			}
			solver := constructor("")

			for range 10 {
				//** Arrange
				literals := uint64(rand.IntN(100) + 1)
				instance := generateSATInstance(literals, rand.IntN(200)+1)

				//** Act
				solution, err := solver.Solve(instance)

				//** Assert
				require.NoError(t, err)
				if solution != nil {
					assert.True(t, instance.Satisfies(solution))
				}
			}
		})
	}
}
