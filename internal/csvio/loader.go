package csvio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/lessonplan/pkg/model"
	"github.com/samber/lo"
)

// Files of a snapshot directory
const (
	ClassesFile      = "classes.csv"
	TeachersFile     = "teachers.csv"
	RoomsFile        = "rooms.csv"
	LessonGroupsFile = "lesson_groups.csv"
	LessonsFile      = "lessons.csv"
	CoursesFile      = "courses.csv"
)

type classRow struct {
	Id        string `csv:"id"`
	Divisions string `csv:"divisions"`
	HomeRoom  string `csv:"home_room"`
}

type idRow struct {
	Id string `csv:"id"`
}

type lessonGroupRow struct {
	Id           string `csv:"id"`
	BlockSubject string `csv:"block_subject"`
	BlockTag     string `csv:"block_tag"`
}

// Day and period are empty for lessons without a fixed time
type lessonRow struct {
	LessonGroup string `csv:"lesson_group"`
	LengthSTR   string `csv:"length"`
	DaySTR      string `csv:"day"`
	PeriodSTR   string `csv:"period"`
}

type courseRow struct {
	Id          string `csv:"id"`
	LessonGroup string `csv:"lesson_group"`
	Workload    string `csv:"workload"`
	Class       string `csv:"class"`
	Group       string `csv:"group"`
	Subject     string `csv:"subject"`
	Teacher     string `csv:"teacher"`
	Room        string `csv:"room"`
}

// LoadSnapshot reads a snapshot from the csv files of a directory. Teachers,
// rooms and lessons may be missing, the other files are required.
func LoadSnapshot(dir string) (model.Snapshot, error) {
	classes := []*classRow{}
	if err := unmarshal(filepath.Join(dir, ClassesFile), &classes, true); err != nil {
		return model.Snapshot{}, err
	}

	teachers := []*idRow{}
	if err := unmarshal(filepath.Join(dir, TeachersFile), &teachers, false); err != nil {
		return model.Snapshot{}, err
	}

	rooms := []*idRow{}
	if err := unmarshal(filepath.Join(dir, RoomsFile), &rooms, false); err != nil {
		return model.Snapshot{}, err
	}

	lessonGroups := []*lessonGroupRow{}
	if err := unmarshal(filepath.Join(dir, LessonGroupsFile), &lessonGroups, true); err != nil {
		return model.Snapshot{}, err
	}

	lessons := []*lessonRow{}
	if err := unmarshal(filepath.Join(dir, LessonsFile), &lessons, false); err != nil {
		return model.Snapshot{}, err
	}

	courses := []*courseRow{}
	if err := unmarshal(filepath.Join(dir, CoursesFile), &courses, true); err != nil {
		return model.Snapshot{}, err
	}

	snapshot := model.Snapshot{
		Classes: lo.Map(classes, func(row *classRow, _ int) model.Class {
			return model.Class{Id: strings.TrimSpace(row.Id), Divisions: row.Divisions, HomeRoom: strings.TrimSpace(row.HomeRoom)}
		}),
		Teachers: ids(teachers),
		Rooms:    ids(rooms),
		LessonGroups: lo.Map(lessonGroups, func(row *lessonGroupRow, _ int) model.LessonGroup {
			return model.LessonGroup{
				Id:           strings.TrimSpace(row.Id),
				BlockSubject: strings.TrimSpace(row.BlockSubject),
				BlockTag:     strings.TrimSpace(row.BlockTag),
				Lessons:      []model.Lesson{},
			}
		}),
		Courses: lo.Map(courses, func(row *courseRow, _ int) model.CourseEntry {
			return model.CourseEntry{
				Id:          strings.TrimSpace(row.Id),
				LessonGroup: strings.TrimSpace(row.LessonGroup),
				Workload:    strings.TrimSpace(row.Workload),
				Class:       strings.TrimSpace(row.Class),
				Group:       strings.TrimSpace(row.Group),
				Subject:     strings.TrimSpace(row.Subject),
				Teacher:     strings.TrimSpace(row.Teacher),
				Room:        strings.TrimSpace(row.Room),
			}
		}),
	}

	positions := make(map[string]int, len(snapshot.LessonGroups))
	for i, lessonGroup := range snapshot.LessonGroups {
		positions[lessonGroup.Id] = i
	}
	for i, row := range lessons {
		// Line 1 is the header
		lesson, err := parseLesson(row)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("%v line %v: %w", LessonsFile, i+2, err)
		}
		position, ok := positions[strings.TrimSpace(row.LessonGroup)]
		if !ok {
			return model.Snapshot{}, fmt.Errorf("%v line %v: unknown lesson-group %q", LessonsFile, i+2, row.LessonGroup)
		}
		snapshot.LessonGroups[position].Lessons = append(snapshot.LessonGroups[position].Lessons, lesson)
	}

	return snapshot, nil
}

func unmarshal[T any](path string, rows *[]*T, required bool) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to open %v: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, rows); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return fmt.Errorf("failed to parse data from %v: %w", path, err)
	}
	return nil
}

func ids(rows []*idRow) []string {
	return lo.FilterMap(rows, func(row *idRow, _ int) (string, bool) {
		id := strings.TrimSpace(row.Id)
		return id, id != ""
	})
}

func parseLesson(row *lessonRow) (model.Lesson, error) {
	var lesson model.Lesson

	if length := strings.TrimSpace(row.LengthSTR); length != "" {
		value, err := strconv.Atoi(length)
		if err != nil {
			return model.Lesson{}, fmt.Errorf("invalid length %q", row.LengthSTR)
		}
		lesson.Length = value
	}

	day, period := strings.TrimSpace(row.DaySTR), strings.TrimSpace(row.PeriodSTR)
	if day == "" && period == "" {
		return lesson, nil
	} else if day == "" || period == "" {
		return model.Lesson{}, fmt.Errorf("a fixed lesson needs both day and period")
	}

	dayValue, err := strconv.Atoi(day)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("invalid day %q", row.DaySTR)
	}
	periodValue, err := strconv.Atoi(period)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("invalid period %q", row.PeriodSTR)
	}
	lesson.Time = &model.Slot{Day: dayValue, Period: periodValue}

	return lesson, nil
}
