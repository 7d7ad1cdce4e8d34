package model

import (
	"slices"

	"github.com/limaJavier/lessonplan/pkg/bitmask"
	"github.com/limaJavier/lessonplan/pkg/groups"
	"github.com/limaJavier/lessonplan/pkg/rooms"
)

// ClassAtoms is the part of one class an activity occupies.
type ClassAtoms struct {
	Class string
	Atoms []groups.AtomicGroup // Empty for undivided classes
	Group string               // Canonical name of Atoms, empty when it has none
}

// Activity is one schedulable lesson. Activities are never modified after
// assembly.
type Activity struct {
	Index         int
	LessonGroup   string
	BlockTag      string
	Subject       string
	Length        int
	Time          *Slot
	Teachers      []string
	Classes       []ClassAtoms
	Rooms         rooms.Plan
	RoomsResolved bool // False when the room wishes conflict
	Courses       []string
	Mask          bitmask.Mask // Teachers and atomic class-groups occupied
}

// Clashes reports whether the two activities share a teacher or pupils and
// thus cannot take place at the same time.
func (activity *Activity) Clashes(other *Activity) bool {
	return activity.Mask.Intersects(other.Mask)
}

// SharesRoom reports whether both activities need the same fixed room.
func (activity *Activity) SharesRoom(other *Activity) bool {
	for _, room := range activity.Rooms.Fixed {
		if slices.Contains(other.Rooms.Fixed, room) {
			return true
		}
	}
	return false
}

func (activity *Activity) indexed() bool {
	return len(activity.Teachers) > 0 || len(activity.Classes) > 0
}

// Activities is the arena of assembled activities with lookup tables from
// class, teacher and subject to activity indices. It is read-only once
// assembled and may be shared between goroutines.
type Activities struct {
	list      []Activity
	byClass   map[string][]int
	byTeacher map[string][]int
	bySubject map[string][]int
}

func newActivities() *Activities {
	return &Activities{
		list:      make([]Activity, 0),
		byClass:   make(map[string][]int),
		byTeacher: make(map[string][]int),
		bySubject: make(map[string][]int),
	}
}

func (activities *Activities) add(activity Activity) int {
	index := len(activities.list)
	activity.Index = index
	activities.list = append(activities.list, activity)

	if !activity.indexed() {
		return index
	}
	for _, class := range activity.Classes {
		activities.byClass[class.Class] = append(activities.byClass[class.Class], index)
	}
	for _, teacher := range activity.Teachers {
		activities.byTeacher[teacher] = append(activities.byTeacher[teacher], index)
	}
	if activity.Subject != "" {
		activities.bySubject[activity.Subject] = append(activities.bySubject[activity.Subject], index)
	}
	return index
}

func (activities *Activities) Len() int {
	return len(activities.list)
}

// At returns the activity with the given index. The pointer must not be used
// to modify it.
func (activities *Activities) At(index int) *Activity {
	return &activities.list[index]
}

func (activities *Activities) All() []Activity {
	return slices.Clone(activities.list)
}

func (activities *Activities) ByClass(class string) []int {
	return slices.Clone(activities.byClass[class])
}

func (activities *Activities) ByTeacher(teacher string) []int {
	return slices.Clone(activities.byTeacher[teacher])
}

func (activities *Activities) BySubject(subject string) []int {
	return slices.Clone(activities.bySubject[subject])
}
