package csvio

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/lessonplan/pkg/groups"
	"github.com/limaJavier/lessonplan/pkg/model"
	"github.com/limaJavier/lessonplan/pkg/rooms"
	"github.com/samber/lo"
)

type ActivityCSVRow struct {
	Index         int    `csv:"index"`
	LessonGroup   string `csv:"lesson_group"`
	BlockTag      string `csv:"block_tag"`
	Subject       string `csv:"subject"`
	Length        int    `csv:"length"`
	Time          string `csv:"time"`
	Teachers      string `csv:"teachers"`
	Classes       string `csv:"classes"`
	Rooms         string `csv:"rooms"`
	RoomsResolved bool   `csv:"rooms_resolved"`
	Mask          string `csv:"mask"`
}

// ActivityRows formats the activities of a model into ActivityCSVRow structs.
func ActivityRows(m *model.Model) []*ActivityCSVRow {
	return lo.Map(m.Activities.All(), func(activity model.Activity, _ int) *ActivityCSVRow {
		row := &ActivityCSVRow{
			Index:         activity.Index,
			LessonGroup:   activity.LessonGroup,
			BlockTag:      activity.BlockTag,
			Subject:       activity.Subject,
			Length:        activity.Length,
			Teachers:      strings.Join(activity.Teachers, " "),
			Classes:       strings.Join(lo.Map(activity.Classes, func(class model.ClassAtoms, _ int) string { return ClassLabel(class) }), " "),
			Rooms:         strings.Join(lo.Map(activity.Rooms.Wishes(), func(wish rooms.Wish, _ int) string { return wish.String() }), " "),
			RoomsResolved: activity.RoomsResolved,
			Mask:          activity.Mask.String(),
		}
		if activity.Time != nil {
			row.Time = fmt.Sprintf("%v:%v", activity.Time.Day, activity.Time.Period)
		}
		return row
	})
}

// ClassLabel renders the part of a class taking part in an activity: "10G"
// for the whole class, "10G.A" for a named group, else the atomic groups.
func ClassLabel(class model.ClassAtoms) string {
	switch class.Group {
	case groups.Wildcard:
		return class.Class
	case "":
		atoms := lo.Map(class.Atoms, func(atom groups.AtomicGroup, _ int) string { return string(atom) })
		return fmt.Sprintf("%v.{%v}", class.Class, strings.Join(atoms, ","))
	default:
		return class.Class + "." + class.Group
	}
}

// WriteActivities writes the activities of a model to the csv file at path,
// replacing it if it exists.
func WriteActivities(path string, m *model.Model) error {
	rows := ActivityRows(m)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", path, err)
	}
	defer out.Close()

	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return fmt.Errorf("failed to write activities to %v: %w", path, err)
	}
	return nil
}
