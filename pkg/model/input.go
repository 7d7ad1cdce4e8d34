package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/limaJavier/lessonplan/pkg/bitmask"
	"github.com/limaJavier/lessonplan/pkg/rooms"
	"github.com/mitchellh/mapstructure"
)

// Reserved ids
const (
	NoTeacher = bitmask.NoTeacher
	NoClass   = bitmask.NoClass
	NoRoom    = rooms.NoRoom
)

type Class struct {
	Id        string `mapstructure:"id"`
	Divisions string `mapstructure:"divisions"` // e.g. "A+B;G+R"
	HomeRoom  string `mapstructure:"homeRoom"`
}

type Slot struct {
	Day    int `mapstructure:"day"`
	Period int `mapstructure:"period"`
}

type Lesson struct {
	Length int   `mapstructure:"length"`
	Time   *Slot `mapstructure:"time"` // Nil when the lesson is not fixed
}

// LessonGroup links physical lessons to the courses sharing them. A block
// carries its own subject tag.
type LessonGroup struct {
	Id           string   `mapstructure:"id"`
	BlockSubject string   `mapstructure:"blockSubject"`
	BlockTag     string   `mapstructure:"blockTag"`
	Lessons      []Lesson `mapstructure:"lessons"`
}

// CourseEntry is a course bound to a lesson-group, directly or through a
// workload record shared with other entries.
type CourseEntry struct {
	Id          string `mapstructure:"id"`
	LessonGroup string `mapstructure:"lessonGroup"`
	Workload    string `mapstructure:"workload"`
	Class       string `mapstructure:"class"`
	Group       string `mapstructure:"group"`
	Subject     string `mapstructure:"subject"`
	Teacher     string `mapstructure:"teacher"`
	Room        string `mapstructure:"room"`
}

// Snapshot is the complete input of one scheduling session.
type Snapshot struct {
	Classes      []Class       `mapstructure:"classes"`
	Teachers     []string      `mapstructure:"teachers"`
	Rooms        []string      `mapstructure:"rooms"`
	LessonGroups []LessonGroup `mapstructure:"lessonGroups"`
	Courses      []CourseEntry `mapstructure:"courses"`
}

func InputFromJson(file string) (Snapshot, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Snapshot{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	if err := mapstructure.Decode(inputJson, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("cannot decode snapshot %v: %w", file, err)
	}
	return snapshot, nil
}
