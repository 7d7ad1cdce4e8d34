package model

import (
	"context"
	"testing"

	"github.com/limaJavier/lessonplan/pkg/bitmask"
	"github.com/limaJavier/lessonplan/pkg/groups"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Classes: []Class{
			{Id: "10G", Divisions: "A+B;G+R", HomeRoom: "H10"},
			{Id: "11K", Divisions: ""},
		},
		Teachers: []string{"T1", "T2"},
		Rooms:    []string{"R1", "R2", "R3", "H10"},
		LessonGroups: []LessonGroup{
			{Id: "LG1", Lessons: []Lesson{{Length: 1}, {Length: 2}}},
		},
		Courses: []CourseEntry{
			{Id: "C1", LessonGroup: "LG1", Class: "10G", Group: "A", Subject: "Ma", Teacher: "T1", Room: "R1"},
			{Id: "C2", LessonGroup: "LG1", Class: "11K", Group: "*", Subject: "Ma", Teacher: "T2", Room: "R2"},
		},
	}
}

func assemble(t *testing.T, snapshot Snapshot, options ...Option) *Model {
	t.Helper()
	model, err := NewAssembler(options...).Assemble(context.Background(), snapshot)
	require.NoError(t, err)
	require.NotNil(t, model)
	return model
}

func errorKinds(model *Model) []Kind {
	return lo.Map(model.Errors, func(err *AssemblyError, _ int) Kind { return err.Kind })
}

func TestAssembleSharedLessonGroup(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	assert.Empty(t, model.Errors)
	require.Equal(t, 2, model.Activities.Len())

	table := model.Table
	groupA, ok := table.Group("10G", "A")
	require.True(t, ok)
	whole11K, ok := table.Group("11K", groups.Wildcard)
	require.True(t, ok)
	expected := table.Teacher("T1").Or(table.Teacher("T2")).Or(groupA).Or(whole11K)

	// T1, T2, then 10G's atoms A.G, A.R, B.G, B.R, then 11K
	assert.Equal(t, 7, table.Width)
	assert.Equal(t, []int{0, 1, 2, 3, 6}, expected.Bits())

	for i, activity := range model.Activities.All() {
		assert.Equal(t, i, activity.Index)
		assert.True(t, activity.Mask.Equal(expected), activity.Mask.String())
		assert.Equal(t, "LG1", activity.LessonGroup)
		assert.Equal(t, "Ma", activity.Subject)
		assert.Equal(t, []string{"T1", "T2"}, activity.Teachers)
		assert.Equal(t, []string{"C1", "C2"}, activity.Courses)
		assert.True(t, activity.RoomsResolved)
		assert.Equal(t, []string{"R1", "R2"}, activity.Rooms.Fixed)

		require.Len(t, activity.Classes, 2)
		assert.Equal(t, "10G", activity.Classes[0].Class)
		assert.Equal(t, "A", activity.Classes[0].Group)
		assert.Equal(t, []groups.AtomicGroup{"A.G", "A.R"}, activity.Classes[0].Atoms)
		assert.Equal(t, "11K", activity.Classes[1].Class)
		assert.Equal(t, groups.Wildcard, activity.Classes[1].Group)
	}
	assert.Equal(t, 1, model.Activities.At(0).Length)
	assert.Equal(t, 2, model.Activities.At(1).Length)

	assert.Equal(t, []int{0, 1}, model.Activities.ByClass("10G"))
	assert.Equal(t, []int{0, 1}, model.Activities.ByClass("11K"))
	assert.Equal(t, []int{0, 1}, model.Activities.ByTeacher("T2"))
	assert.Equal(t, []int{0, 1}, model.Activities.BySubject("Ma"))
	assert.Empty(t, model.Activities.ByClass("12Z"))
	assert.True(t, model.Clash(0, 1))
}

func TestAssembleIsDeterministic(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.LessonGroups = append(snapshot.LessonGroups, LessonGroup{Id: "LG2", Lessons: []Lesson{{}, {}, {}}})
	snapshot.Courses = append(snapshot.Courses,
		CourseEntry{Id: "C3", LessonGroup: "LG2", Class: "10G", Group: "B.R", Subject: "En", Teacher: "T2", Room: "R1/R3"},
	)

	//** Act
	first := assemble(t, snapshot)
	second := assemble(t, snapshot)

	//** Assert
	assert.Equal(t, first.Activities.All(), second.Activities.All())
	assert.Equal(t, first.Table.TeacherIndex, second.Table.TeacherIndex)
	for class, masks := range first.Table.Classes {
		for group, mask := range masks.Groups {
			assert.True(t, mask.Equal(second.Table.Classes[class].Groups[group]), "%v %v", class, group)
		}
	}
}

func TestAssembleIsolatedActivitiesDoNotClash(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.LessonGroups = []LessonGroup{
		{Id: "LG1", Lessons: []Lesson{{}}},
		{Id: "LG2", Lessons: []Lesson{{}}},
		{Id: "LG3", Lessons: []Lesson{{}}},
	}
	snapshot.Courses = []CourseEntry{
		{Id: "C1", LessonGroup: "LG1", Class: "10G", Group: "A", Teacher: "T1"},
		{Id: "C2", LessonGroup: "LG2", Class: "10G", Group: "B", Teacher: "T2"},
		{Id: "C3", LessonGroup: "LG3", Class: "10G", Group: "G", Teacher: "--"},
	}

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	require.Equal(t, 3, model.Activities.Len())
	assert.False(t, model.Clash(0, 1)) // Different teachers, disjoint groups
	assert.True(t, model.Clash(0, 2))  // A and G share A.G
	assert.True(t, model.Clash(1, 2))  // B and G share B.G
	assert.Empty(t, model.Activities.At(2).Teachers)
}

func TestAssembleReportsDataErrors(t *testing.T) {
	scenarios := []struct {
		name   string
		modify func(snapshot *Snapshot)
		kind   Kind
	}{
		{
			name: "group without class",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Class = NoClass
			},
			kind: KindNullClassGroup,
		},
		{
			name: "unknown group",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Group = "X"
			},
			kind: KindUnknownGroup,
		},
		{
			name: "unknown class",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Class = "12Z"
			},
			kind: KindUnknownClass,
		},
		{
			name: "unknown teacher",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Teacher = "T9"
			},
			kind: KindUnknownTeacher,
		},
		{
			name: "unknown lesson-group",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].LessonGroup = "LG9"
			},
			kind: KindUnknownLessonGroup,
		},
		{
			name: "unknown room",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Room = "R9"
			},
			kind: KindUnknownRoom,
		},
		{
			name: "subject mismatch",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[1].Subject = "En"
			},
			kind: KindSubjectMismatch,
		},
		{
			name: "division syntax",
			modify: func(snapshot *Snapshot) {
				snapshot.Classes[0].Divisions = "A+B;G"
			},
			kind: KindDivisionSyntax,
		},
		{
			name: "duplicate group",
			modify: func(snapshot *Snapshot) {
				snapshot.Classes[0].Divisions = "A+B;A+R"
			},
			kind: KindDuplicateGroup,
		},
		{
			name: "duplicate class",
			modify: func(snapshot *Snapshot) {
				snapshot.Classes = append(snapshot.Classes, Class{Id: "11K", Divisions: "C+D"})
			},
			kind: KindDuplicateId,
		},
		{
			name: "duplicate lesson-group",
			modify: func(snapshot *Snapshot) {
				snapshot.LessonGroups = append(snapshot.LessonGroups, LessonGroup{Id: "LG1", Lessons: []Lesson{{Length: 1}}})
			},
			kind: KindDuplicateId,
		},
		{
			name: "home room missing",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[1].Room = "$"
			},
			kind: KindUnknownRoom,
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			//** Arrange
			snapshot := testSnapshot()
			scenario.modify(&snapshot)

			//** Act
			model := assemble(t, snapshot)

			//** Assert
			assert.Contains(t, errorKinds(model), scenario.kind)
			assert.NotZero(t, model.Activities.Len())
			for _, err := range model.Errors {
				assert.NotEmpty(t, err.Error())
			}
		})
	}
}

func TestAssembleErrorTags(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.Courses[0].Group = "X"

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	require.Len(t, model.Errors, 1)
	err := model.Errors[0]
	assert.Equal(t, KindUnknownGroup, err.Kind)
	assert.Equal(t, "10G", err.Class)
	assert.Equal(t, "LG1", err.LessonGroup)
	assert.Equal(t, "C1", err.Course)
	assert.ErrorIs(t, err, groups.ErrUnknownGroup)

	// The faulty course contributes its teacher only
	activity := model.Activities.At(0)
	require.Len(t, activity.Classes, 1)
	assert.Equal(t, "11K", activity.Classes[0].Class)
	assert.True(t, activity.Mask.Contains(model.Table.Teacher("T1")))
}

func TestAssembleDuplicateClassKeepsFirst(t *testing.T) {
	//** Arrange
	snapshot := Snapshot{
		Classes: []Class{
			{Id: "10G", Divisions: "A+B"},
			{Id: "10G", Divisions: "C+D"},
		},
		Teachers: []string{"T1", "T2"},
		LessonGroups: []LessonGroup{
			{Id: "LG1", Lessons: []Lesson{{Length: 1}}},
			{Id: "LG2", Lessons: []Lesson{{Length: 1}}},
		},
		Courses: []CourseEntry{
			{Id: "C1", LessonGroup: "LG1", Class: "10G", Group: "A", Subject: "Ma", Teacher: "T1"},
			{Id: "C2", LessonGroup: "LG2", Class: "10G", Group: "*", Subject: "En", Teacher: "T2"},
		},
	}

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	require.Len(t, model.Errors, 1)
	assert.Equal(t, KindDuplicateId, model.Errors[0].Kind)
	assert.Equal(t, "10G", model.Errors[0].Class)
	assert.ErrorIs(t, model.Errors[0], ErrDuplicateId)

	assert.Equal(t, []string{"A", "B", groups.Wildcard}, model.Classes["10G"].Groups())
	require.Equal(t, 2, model.Activities.Len())
	groupA, ok := model.Table.Group("10G", "A")
	require.True(t, ok)
	assert.True(t, model.Activities.At(0).Mask.Contains(groupA))
	assert.False(t, groupA.IsZero())
	assert.True(t, model.Clash(0, 1))
}

func TestAssembleDuplicateLessonGroupBuiltOnce(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.LessonGroups = append(snapshot.LessonGroups, LessonGroup{Id: "LG1", Lessons: []Lesson{{Length: 3}}})

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	require.Len(t, model.Errors, 1)
	assert.Equal(t, KindDuplicateId, model.Errors[0].Kind)
	assert.Equal(t, "LG1", model.Errors[0].LessonGroup)
	assert.Equal(t, 2, model.Activities.Len())
	assert.Equal(t, []int{1, 2}, lo.Map(model.Activities.All(), func(activity Activity, _ int) int { return activity.Length }))
}

func TestAssembleRoomConflictKeepsActivities(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.Courses[1].Room = "R1"

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	assert.Equal(t, []Kind{KindRoomConflict}, errorKinds(model))
	assert.Equal(t, "LG1", model.Errors[0].LessonGroup)
	require.Equal(t, 2, model.Activities.Len())
	for _, activity := range model.Activities.All() {
		assert.False(t, activity.RoomsResolved)
		assert.True(t, activity.Rooms.IsEmpty())
	}
}

func TestAssembleRoomWishes(t *testing.T) {
	scenarios := []struct {
		name     string
		modify   func(snapshot *Snapshot)
		fixed    []string
		choices  [][]string
		flexible [][]string
	}{
		{
			name: "shared workload books one room",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Workload = "W1"
				snapshot.Courses[1].Workload = "W1"
				snapshot.Courses[1].Room = "R1"
			},
			fixed:    []string{"R1"},
			choices:  [][]string{},
			flexible: [][]string{},
		},
		{
			name: "home room",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Room = "$"
			},
			fixed:    []string{"H10", "R2"},
			choices:  [][]string{},
			flexible: [][]string{},
		},
		{
			name: "choice promoted",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Room = "R2/R3"
			},
			fixed:    []string{"R2", "R3"},
			choices:  [][]string{},
			flexible: [][]string{},
		},
		{
			name: "flexible",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Room = "R1/R2+"
				snapshot.Courses[1].Room = "R1/R3"
			},
			fixed:    []string{},
			choices:  [][]string{{"R1", "R3"}},
			flexible: [][]string{{"R1", "R2"}},
		},
		{
			name: "no room",
			modify: func(snapshot *Snapshot) {
				snapshot.Courses[0].Room = NoRoom
				snapshot.Courses[1].Room = ""
			},
			fixed:    []string{},
			choices:  [][]string{},
			flexible: [][]string{},
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			//** Arrange
			snapshot := testSnapshot()
			scenario.modify(&snapshot)

			//** Act
			model := assemble(t, snapshot)

			//** Assert
			assert.Empty(t, model.Errors)
			plan := model.Activities.At(0).Rooms
			assert.Equal(t, scenario.fixed, plan.Fixed)
			assert.Equal(t, scenario.choices, plan.Choices)
			assert.Equal(t, scenario.flexible, plan.Flexible)
		})
	}
}

func TestAssembleBlockSubject(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.LessonGroups[0].BlockSubject = "Sport"
	snapshot.LessonGroups[0].BlockTag = "S1"
	snapshot.Courses[1].Subject = "En"

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	assert.Empty(t, model.Errors)
	assert.Equal(t, "Sport", model.Activities.At(0).Subject)
	assert.Equal(t, "S1", model.Activities.At(0).BlockTag)
	assert.Equal(t, []int{0, 1}, model.Activities.BySubject("Sport"))
	assert.Empty(t, model.Activities.BySubject("Ma"))
}

func TestAssembleUnindexedActivity(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.LessonGroups = append(snapshot.LessonGroups, LessonGroup{Id: "LG2", Lessons: []Lesson{{}}})
	snapshot.Courses = append(snapshot.Courses, CourseEntry{Id: "C3", LessonGroup: "LG2", Subject: "Ex", Teacher: NoTeacher})

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	assert.Empty(t, model.Errors)
	require.Equal(t, 3, model.Activities.Len())
	activity := model.Activities.At(2)
	assert.True(t, activity.Mask.IsZero())
	assert.Equal(t, "Ex", activity.Subject)
	assert.Empty(t, model.Activities.BySubject("Ex"))
	assert.Equal(t, []int{0, 1}, model.Activities.ByClass("10G"))
}

func TestAssembleEmptyAtoms(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.Classes[0].Divisions = "A+B;G+R-B.R"
	snapshot.Courses[0].Group = "B.R"

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	assert.Empty(t, model.Errors)
	assert.Equal(t, 6, model.Table.Width)

	activity := model.Activities.At(0)
	require.Len(t, activity.Classes, 1)
	assert.Equal(t, "11K", activity.Classes[0].Class)
	assert.Empty(t, model.Activities.ByClass("10G"))
}

func TestAssembleFixedTime(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()
	snapshot.LessonGroups[0].Lessons = []Lesson{{Length: 0, Time: &Slot{Day: 2, Period: 3}}}

	//** Act
	model := assemble(t, snapshot)

	//** Assert
	activity := model.Activities.At(0)
	assert.Equal(t, 1, activity.Length)
	require.NotNil(t, activity.Time)
	assert.Equal(t, Slot{Day: 2, Period: 3}, *activity.Time)

	snapshot.LessonGroups[0].Lessons[0].Time.Day = 4
	assert.Equal(t, 2, activity.Time.Day)
}

func TestAssembleBitSpace(t *testing.T) {
	//** Arrange
	snapshot := testSnapshot()

	//** Act
	model, err := NewAssembler(WithCapacity(3)).Assemble(context.Background(), snapshot)

	//** Assert
	assert.Nil(t, model)
	assert.ErrorIs(t, err, bitmask.ErrBitSpaceExhausted)

	model, err = NewAssembler(WithCapacity(3), WithWideBits(true)).Assemble(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 7, model.Table.Width)
}

func TestAssembleCancelled(t *testing.T) {
	//** Arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	//** Act
	model, err := NewAssembler().Assemble(ctx, testSnapshot())

	//** Assert
	assert.Nil(t, model)
	assert.ErrorIs(t, err, context.Canceled)
}
