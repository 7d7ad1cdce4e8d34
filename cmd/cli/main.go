package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/limaJavier/lessonplan/internal/config"
	"github.com/limaJavier/lessonplan/internal/csvio"
	"github.com/limaJavier/lessonplan/internal/logger"
	"github.com/limaJavier/lessonplan/pkg/groups"
	"github.com/limaJavier/lessonplan/pkg/model"
	"github.com/limaJavier/lessonplan/pkg/sat"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitOk            = 0
	exitFatal         = 1
	exitUnverified    = 15
	exitUnsatisfiable = 20
)

var Days = map[int]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
	6: "Sunday",
}

type summary struct {
	Bits       int               `json:"bits"`
	Activities []activitySummary `json:"activities"`
	Errors     []errorSummary    `json:"errors"`
	Placement  *placementSummary `json:"placement,omitempty"`
}

type activitySummary struct {
	Index       int            `json:"index"`
	LessonGroup string         `json:"lessonGroup"`
	Subject     string         `json:"subject"`
	Length      int            `json:"length"`
	Time        *model.Slot    `json:"time,omitempty"`
	Teachers    []string       `json:"teachers"`
	Classes     []classSummary `json:"classes"`
	Mask        string         `json:"mask"`
	Rooms       roomsSummary   `json:"rooms"`
}

type classSummary struct {
	Class string   `json:"class"`
	Group string   `json:"group"`
	Atoms []string `json:"atoms"`
}

type roomsSummary struct {
	Resolved bool       `json:"resolved"`
	Fixed    []string   `json:"fixed"`
	Choices  [][]string `json:"choices"`
	Flexible [][]string `json:"flexible"`
}

type errorSummary struct {
	Kind        model.Kind `json:"kind"`
	Class       string     `json:"class,omitempty"`
	LessonGroup string     `json:"lessonGroup,omitempty"`
	Course      string     `json:"course,omitempty"`
	Message     string     `json:"message"`
}

type placementSummary struct {
	Variables  uint64           `json:"variables"`
	Clauses    uint64           `json:"clauses"`
	Placements []placementEntry `json:"placements"`
}

type placementEntry struct {
	Activity int    `json:"activity"`
	Day      int    `json:"day"`
	DayName  string `json:"dayName,omitempty"`
	Period   int    `json:"period"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	// Define arguments
	flags := config.Flags("lessonplan")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOk
		}
		return exitFatal
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Printf("cannot load configuration: %v", err)
		return exitFatal
	}

	l, err := logger.New(cfg)
	if err != nil {
		log.Printf("cannot build logger: %v", err)
		return exitFatal
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Extract input
	snapshot, err := loadSnapshot(cfg.Input)
	if err != nil {
		l.Error("cannot load input", zap.String("path", cfg.Input.Path), zap.Error(err))
		return exitFatal
	}

	// Assemble activities
	assembler := model.NewAssembler(
		model.WithLogger(l),
		model.WithWideBits(cfg.Bits.Wide),
		model.WithCapacity(cfg.Bits.Capacity),
	)
	m, err := assembler.Assemble(ctx, snapshot)
	if err != nil {
		l.Error("assembly failed", zap.Error(err))
		return exitFatal
	}
	for _, assemblyErr := range m.Errors {
		l.Warn("assembly problem",
			zap.String("kind", string(assemblyErr.Kind)),
			zap.String("class", assemblyErr.Class),
			zap.String("lessonGroup", assemblyErr.LessonGroup),
			zap.String("course", assemblyErr.Course),
			zap.Error(assemblyErr.Err),
		)
	}

	if cfg.Output.Activities != "" {
		if err := csvio.WriteActivities(cfg.Output.Activities, m); err != nil {
			l.Error("cannot export activities", zap.Error(err))
			return exitFatal
		}
	}

	result := summarize(m)
	code := exitOk

	if cfg.Placement.Enabled {
		result.Placement, code, err = place(m, cfg.Placement, l)
		if err != nil {
			l.Error("an error occurred during placement", zap.Error(err))
			return exitFatal
		}
	}

	if err := writeSummary(result, cfg.Output.Path, stdout); err != nil {
		l.Error("cannot write summary", zap.Error(err))
		return exitFatal
	}
	return code
}

func loadSnapshot(input config.InputConfig) (model.Snapshot, error) {
	if input.Format == config.FormatCsv {
		return csvio.LoadSnapshot(input.Path)
	}
	return model.InputFromJson(input.Path)
}

// place places the activities, or writes the DIMACS instance when asked to.
// The returned summary is nil when only the instance was written.
func place(m *model.Model, cfg config.PlacementConfig, l *zap.Logger) (*placementSummary, int, error) {
	if cfg.Dimacs != "" {
		satInstance, err := model.EncodePlacement(m, cfg.Grid)
		if err != nil {
			return nil, exitFatal, err
		}
		if err := writeDimacs(satInstance, cfg.Dimacs); err != nil {
			return nil, exitFatal, err
		}
		l.Info("placement instance written",
			zap.String("path", cfg.Dimacs),
			zap.Uint64("variables", satInstance.Variables),
			zap.Int("clauses", len(satInstance.Clauses)),
		)
		return nil, exitOk, nil
	}

	// Initialize engines
	solver := sat.Solvers[cfg.Solver](cfg.SolverPath)
	placer := model.NewSatPlacer(solver)

	placements, variables, clauses, err := placer.Build(m, cfg.Grid)
	if err != nil {
		return nil, exitFatal, err
	}

	result := &placementSummary{Variables: variables, Clauses: clauses}
	if placements == nil {
		l.Warn("no placement exists", zap.Uint64("variables", variables), zap.Uint64("clauses", clauses))
		return result, exitUnsatisfiable, nil
	}

	// Verify placement correctness
	if !placer.Verify(placements, m, cfg.Grid) {
		l.Error("placement failed verification", zap.Uint64("variables", variables), zap.Uint64("clauses", clauses))
		return result, exitUnverified, nil
	}

	result.Placements = lo.Map(placements, func(placement model.Placement, _ int) placementEntry {
		return placementEntry{
			Activity: placement.Activity,
			Day:      placement.Day,
			DayName:  Days[placement.Day],
			Period:   placement.Period,
		}
	})
	l.Info("activities placed", zap.Int("placements", len(placements)))
	return result, exitOk, nil
}

func writeDimacs(satInstance sat.SAT, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := satInstance.WriteDIMACS(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func summarize(m *model.Model) summary {
	return summary{
		Bits: m.Table.Width,
		Activities: lo.Map(m.Activities.All(), func(activity model.Activity, _ int) activitySummary {
			return activitySummary{
				Index:       activity.Index,
				LessonGroup: activity.LessonGroup,
				Subject:     activity.Subject,
				Length:      activity.Length,
				Time:        activity.Time,
				Teachers:    activity.Teachers,
				Classes: lo.Map(activity.Classes, func(class model.ClassAtoms, _ int) classSummary {
					return classSummary{
						Class: class.Class,
						Group: class.Group,
						Atoms: lo.Map(class.Atoms, func(atom groups.AtomicGroup, _ int) string { return string(atom) }),
					}
				}),
				Mask: activity.Mask.String(),
				Rooms: roomsSummary{
					Resolved: activity.RoomsResolved,
					Fixed:    activity.Rooms.Fixed,
					Choices:  activity.Rooms.Choices,
					Flexible: activity.Rooms.Flexible,
				},
			}
		}),
		Errors: lo.Map(m.Errors, func(err *model.AssemblyError, _ int) errorSummary {
			return errorSummary{
				Kind:        err.Kind,
				Class:       err.Class,
				LessonGroup: err.LessonGroup,
				Course:      err.Course,
				Message:     err.Err.Error(),
			}
		}),
	}
}

// Verify outfile is empty, if so then write the summary to the Standard Output
func writeSummary(result summary, outFile string, stdout io.Writer) error {
	summaryJson, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}

	if outFile == "" {
		_, err := fmt.Fprintln(stdout, string(summaryJson))
		return err
	}
	return os.WriteFile(outFile, summaryJson, 0666)
}
