package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/lessonplan/pkg/model"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type SchoolMetadata struct {
	Name          string
	Classes       int
	Teachers      int
	LessonGroups  int
	Divided       float32 // Share of classes split into two divisions
	SharedClasses int     // Classes taking part in each shared lesson-group
}

type BenchmarkResult struct {
	School       string `csv:"school"`
	Classes      int    `csv:"classes"`
	Teachers     int    `csv:"teachers"`
	LessonGroups int    `csv:"lesson_groups"`
	Bits         int    `csv:"bits"`
	Wide         bool   `csv:"wide"`
	Activities   int    `csv:"activities"`
	Errors       int    `csv:"errors"`
	Assembly     int64  `csv:"assembly_us"`
	Variables    uint64 `csv:"variables"`
	Clauses      int    `csv:"clauses"`
	Encoding     int64  `csv:"encoding_us"`
}

func main() {
	outFile := pflag.String("out", "benchmark_results.csv", "Path to the csv file receiving the results")
	days := pflag.Int("days", 5, "Days of the week grid")
	periods := pflag.Int("periods", 8, "Periods per day of the week grid")
	encode := pflag.Bool("encode", true, "Measure the placement encoding too")
	seed := pflag.Uint64("seed", 1, "Seed of the school generator")
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	grid := model.Grid{Days: *days, Periods: *periods}
	results := make([]*BenchmarkResult, 0)

	for _, school := range getSchools() {
		snapshot := generate(school, *seed)
		for _, wide := range []bool{false, true} {
			logger.Info("benchmarking", zap.String("school", school.Name), zap.Bool("wide", wide))

			result, err := measure(school, snapshot, wide, grid, *encode)
			if err != nil {
				logger.Warn("benchmark failed", zap.String("school", school.Name), zap.Bool("wide", wide), zap.Error(err))
				continue
			}
			results = append(results, result)
		}
	}

	if err := toCsv(results, *outFile); err != nil {
		logger.Fatal("cannot write results", zap.Error(err))
	}
}

func getSchools() []SchoolMetadata {
	return []SchoolMetadata{
		{Name: "small", Classes: 8, Teachers: 12, LessonGroups: 60, Divided: 0.5, SharedClasses: 2},
		{Name: "medium", Classes: 24, Teachers: 40, LessonGroups: 240, Divided: 0.5, SharedClasses: 3},
		{Name: "large", Classes: 32, Teachers: 60, LessonGroups: 320, Divided: 0.75, SharedClasses: 3},
	}
}

// generate builds a deterministic synthetic school: divided classes use
// "A+B;G+R", lesson-groups pick a teacher and one group from each of a few
// classes.
func generate(school SchoolMetadata, seed uint64) model.Snapshot {
	random := rand.New(rand.NewPCG(seed, uint64(school.Classes)))

	snapshot := model.Snapshot{
		Classes:      make([]model.Class, 0, school.Classes),
		Teachers:     make([]string, 0, school.Teachers),
		Rooms:        []string{},
		LessonGroups: make([]model.LessonGroup, 0, school.LessonGroups),
		Courses:      make([]model.CourseEntry, 0),
	}

	for i := range school.Classes {
		class := model.Class{Id: fmt.Sprintf("C%02d", i), HomeRoom: fmt.Sprintf("H%02d", i)}
		if random.Float32() < school.Divided {
			class.Divisions = "A+B;G+R"
		}
		snapshot.Classes = append(snapshot.Classes, class)
		snapshot.Rooms = append(snapshot.Rooms, class.HomeRoom)
	}
	for i := range school.Teachers {
		snapshot.Teachers = append(snapshot.Teachers, fmt.Sprintf("T%02d", i))
	}

	divisionGroups := []string{"*", "A", "B", "G", "R"}
	for i := range school.LessonGroups {
		lessonGroup := model.LessonGroup{Id: fmt.Sprintf("LG%03d", i)}
		for range 1 + random.IntN(3) {
			lessonGroup.Lessons = append(lessonGroup.Lessons, model.Lesson{Length: 1 + random.IntN(2)})
		}
		snapshot.LessonGroups = append(snapshot.LessonGroups, lessonGroup)

		teacher := snapshot.Teachers[random.IntN(len(snapshot.Teachers))]
		classes := random.Perm(len(snapshot.Classes))[:1+random.IntN(school.SharedClasses)]
		for j, position := range classes {
			class := snapshot.Classes[position]
			group := "*"
			if class.Divisions != "" {
				group = divisionGroups[random.IntN(len(divisionGroups))]
			}
			snapshot.Courses = append(snapshot.Courses, model.CourseEntry{
				Id:          fmt.Sprintf("%v-%v", lessonGroup.Id, j),
				LessonGroup: lessonGroup.Id,
				Workload:    lessonGroup.Id,
				Class:       class.Id,
				Group:       group,
				Subject:     fmt.Sprintf("S%v", i%12),
				Teacher:     teacher,
				Room:        "$",
			})
		}
	}

	return snapshot
}

func measure(school SchoolMetadata, snapshot model.Snapshot, wide bool, grid model.Grid, encode bool) (*BenchmarkResult, error) {
	start := time.Now()
	m, err := model.NewAssembler(model.WithWideBits(wide)).Assemble(context.Background(), snapshot)
	if err != nil {
		return nil, err
	}
	assembly := time.Since(start)

	result := &BenchmarkResult{
		School:       school.Name,
		Classes:      school.Classes,
		Teachers:     school.Teachers,
		LessonGroups: school.LessonGroups,
		Bits:         m.Table.Width,
		Wide:         wide,
		Activities:   m.Activities.Len(),
		Errors:       len(m.Errors),
		Assembly:     assembly.Microseconds(),
	}
	if !encode {
		return result, nil
	}

	start = time.Now()
	satInstance, err := model.EncodePlacement(m, grid)
	if err != nil {
		return nil, err
	}
	result.Encoding = time.Since(start).Microseconds()
	result.Variables = satInstance.Variables
	result.Clauses = len(satInstance.Clauses)

	return result, nil
}

func toCsv(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	return gocsv.MarshalFile(&results, file)
}
