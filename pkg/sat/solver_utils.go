package sat

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type SATSolver interface {
	Solve(SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

// Solvers maps solver names to constructors taking the executable path; an
// empty path looks the default executable name up in PATH.
var Solvers = map[string]func(path string) SATSolver{
	"kissat":        NewKissatSolver,
	"cadical":       NewCadicalSolver,
	"minisat":       NewMinisatSolver,
	"glucose-simp":  NewGlucoseSimpSolver,
	"cryptominisat": NewCryptominisatSolver,
	"slime":         NewSlimeSolver,
	"ortoolsat":     NewOrtoolsatSolver,
}

func executable(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

// runCompetitionSolver feeds DIMACS into a solver following the SAT
// competition conventions on its standard input and parses its "v" lines.
func runCompetitionSolver(name, path string, sat SAT, args ...string) (SATSolution, error) {
	return execCompetitionSolver(name, path, strings.NewReader(sat.ToDIMACS()), args...)
}

func execCompetitionSolver(name, path string, stdin io.Reader, args ...string) (SATSolution, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = stdin

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	if err != nil && (cmd.ProcessState == nil || (cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 20)) {
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", name, err.Error(), stderr.String())
	} else if cmd.ProcessState.ExitCode() == 20 {
		return nil, nil
	}

	return parseSolution(stdOut.String())
}

func parseSolution(solverOutput string) (SATSolution, error) {
	lines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return len(line) > 0 && line[0] == 'v'
	})
	fields := lo.FlatMap(lines, func(line string, _ int) []string {
		return strings.Fields(line[1:])
	})

	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %v", err)
		} else if value == 0 {
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}
