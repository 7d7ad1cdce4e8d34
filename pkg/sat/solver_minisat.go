package sat

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type minisatSolver struct {
	path string
}

func NewMinisatSolver(path string) SATSolver {
	return &minisatSolver{path: executable(path, "minisat")}
}

func (solver *minisatSolver) Solve(sat SAT) (SATSolution, error) {
	return runMinisatFamily("minisat", solver.path, sat)
}

// glucoseSimpSolver is the simplifying glucose build, which shares minisat's
// command line and result file.
type glucoseSimpSolver struct {
	path string
}

func NewGlucoseSimpSolver(path string) SATSolver {
	return &glucoseSimpSolver{path: executable(path, "glucose-simp")}
}

func (solver *glucoseSimpSolver) Solve(sat SAT) (SATSolution, error) {
	return runMinisatFamily("glucose-simp", solver.path, sat)
}

func runMinisatFamily(name, path string, sat SAT) (SATSolution, error) {
	// Create a temporary file to hold the DIMACS content
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(inputTempFile.Name()) // Ensure the file is removed after execution

	outputTempFile, err := os.CreateTemp("", name+"_output-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(outputTempFile.Name())
	defer outputTempFile.Close()

	if err := sat.WriteDIMACS(inputTempFile); err != nil {
		return nil, fmt.Errorf("failed to write DIMACS to temporary file: %v", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %v", err)
	}

	cmd := exec.Command(path, "-verb=0", inputTempFile.Name(), outputTempFile.Name())

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	err = cmd.Run()
	if err != nil && (cmd.ProcessState == nil || (cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 20)) {
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", name, err.Error(), stderr.String())
	} else if cmd.ProcessState.ExitCode() == 20 {
		return nil, nil
	}

	output, err := io.ReadAll(outputTempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %v", err)
	}
	return parseMinisatSolution(string(output))
}

// parseMinisatSolution reads minisat's result file: a "SAT" header line
// followed by the assignment terminated by 0.
func parseMinisatSolution(output string) (SATSolution, error) {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "SAT" {
		return nil, fmt.Errorf("unexpected minisat output: %q", output)
	}

	solution := make(SATSolution, 0)
	for _, field := range strings.Fields(lines[1]) {
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
