package sat

import (
	"fmt"
	"os"
)

type kissatSolver struct {
	path string
}

func NewKissatSolver(path string) SATSolver {
	return &kissatSolver{path: executable(path, "kissat")}
}

func (solver *kissatSolver) Solve(sat SAT) (SATSolution, error) {
	return runCompetitionSolver("kissat", solver.path, sat, "-q", "--relaxed")
}

type cadicalSolver struct {
	path string
}

func NewCadicalSolver(path string) SATSolver {
	return &cadicalSolver{path: executable(path, "cadical")}
}

func (solver *cadicalSolver) Solve(sat SAT) (SATSolution, error) {
	return runCompetitionSolver("cadical", solver.path, sat, "-q")
}

type cryptominisatSolver struct {
	path string
}

func NewCryptominisatSolver(path string) SATSolver {
	return &cryptominisatSolver{path: executable(path, "cryptominisat")}
}

func (solver *cryptominisatSolver) Solve(sat SAT) (SATSolution, error) {
	return runCompetitionSolver("cryptominisat", solver.path, sat, "--verb", "0")
}

type slimeSolver struct {
	path string
}

func NewSlimeSolver(path string) SATSolver {
	return &slimeSolver{path: executable(path, "slime")}
}

func (solver *slimeSolver) Solve(sat SAT) (SATSolution, error) {
	return runCompetitionSolverOnFile("slime", solver.path, sat)
}

type ortoolsatSolver struct {
	path string
}

func NewOrtoolsatSolver(path string) SATSolver {
	return &ortoolsatSolver{path: executable(path, "ortoolsat")}
}

func (solver *ortoolsatSolver) Solve(sat SAT) (SATSolution, error) {
	return runCompetitionSolverOnFile("ortoolsat", solver.path, sat)
}

// runCompetitionSolverOnFile is runCompetitionSolver for solvers which only
// read the instance from a file given as their last argument.
func runCompetitionSolverOnFile(name, path string, sat SAT, args ...string) (SATSolution, error) {
	tmpFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name()) // Ensure the file is removed after execution

	if err := sat.WriteDIMACS(tmpFile); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write DIMACS to temporary file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %v", err)
	}

	return execCompetitionSolver(name, path, nil, append(args, tmpFile.Name())...)
}
