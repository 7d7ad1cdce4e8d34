package model

import (
	"context"
	"fmt"
	"slices"

	"github.com/limaJavier/lessonplan/pkg/bitmask"
	"github.com/limaJavier/lessonplan/pkg/groups"
	"github.com/limaJavier/lessonplan/pkg/rooms"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Model is the result of one assembly: the parsed classes, the bit table and
// the activity arena, plus every non-fatal problem found on the way.
type Model struct {
	Classes    map[string]*groups.ClassGroups
	Table      *bitmask.Table
	Activities *Activities
	Errors     []*AssemblyError
}

// Clash reports whether two activities of the model clash.
func (model *Model) Clash(activity1, activity2 int) bool {
	return model.Activities.At(activity1).Clashes(model.Activities.At(activity2))
}

type Assembler struct {
	logger   *zap.Logger
	wide     bool
	capacity int
}

type Option func(*Assembler)

func WithLogger(logger *zap.Logger) Option {
	return func(assembler *Assembler) {
		if logger != nil {
			assembler.logger = logger
		}
	}
}

// WithWideBits lifts the FixedWidth limit of the clash bitmasks.
func WithWideBits(wide bool) Option {
	return func(assembler *Assembler) {
		assembler.wide = wide
	}
}

// WithCapacity limits the number of bits of the fixed-width allocator.
func WithCapacity(capacity int) Option {
	return func(assembler *Assembler) {
		assembler.capacity = capacity
	}
}

func NewAssembler(options ...Option) *Assembler {
	assembler := &Assembler{logger: zap.NewNop(), capacity: bitmask.FixedWidth}
	for _, option := range options {
		option(assembler)
	}
	return assembler
}

// Assemble builds the model of a snapshot. Data problems are collected in
// Model.Errors and never stop the assembly. The returned error is fatal (bit
// space exhausted, context cancelled) and comes with a nil model.
func (assembler *Assembler) Assemble(ctx context.Context, snapshot Snapshot) (*Model, error) {
	state := &assembly{
		logger:     assembler.logger,
		classes:    make(map[string]*groups.ClassGroups),
		homeRooms:  make(map[string]string),
		teachers:   lo.SliceToMap(snapshot.Teachers, func(teacher string) (string, bool) { return teacher, true }),
		rooms:      lo.SliceToMap(snapshot.Rooms, func(room string) (string, bool) { return room, true }),
		activities: newActivities(),
		errors:     make([]*AssemblyError, 0),
	}

	//** Parse classes
	specs := make([]bitmask.ClassSpec, 0, len(snapshot.Classes))
	for _, class := range snapshot.Classes {
		// The first class with an id wins
		if _, ok := state.classes[class.Id]; ok {
			state.report(fmt.Errorf("%w: class %q is defined more than once", ErrDuplicateId, class.Id), class.Id, "")
			continue
		}

		classGroups, err := groups.Parse(class.Divisions)
		if err != nil {
			for _, divisionErr := range unjoin(err) {
				state.report(divisionErr, class.Id, "")
			}
		}
		for _, warning := range classGroups.Warnings() {
			state.report(warning, class.Id, "")
		}

		state.logger.Debug("class parsed",
			zap.String("class", class.Id),
			zap.Int("divisions", len(classGroups.Divisions())),
			zap.Int("atoms", len(classGroups.NonEmpty())),
		)

		state.classes[class.Id] = classGroups
		state.homeRooms[class.Id] = class.HomeRoom
		specs = append(specs, bitmask.ClassSpec{Id: class.Id, Groups: classGroups})
	}

	//** Allocate bits
	allocator := bitmask.NewAllocator(assembler.capacity)
	if assembler.wide {
		allocator = bitmask.NewWideAllocator()
	}
	table, err := bitmask.Build(allocator, snapshot.Teachers, specs)
	if err != nil {
		return nil, err
	}
	state.table = table

	//** Collect the courses of each lesson-group
	known := lo.SliceToMap(snapshot.LessonGroups, func(lessonGroup LessonGroup) (string, bool) { return lessonGroup.Id, true })
	courses := make(map[string][]CourseEntry)
	for _, course := range snapshot.Courses {
		if course.LessonGroup == "" {
			continue
		} else if !known[course.LessonGroup] {
			state.reportCourse(fmt.Errorf("%w: %q", ErrUnknownLessonGroup, course.LessonGroup), course)
			continue
		}
		courses[course.LessonGroup] = append(courses[course.LessonGroup], course)
	}

	//** Build activities
	assembled := make(map[string]bool, len(snapshot.LessonGroups))
	for _, lessonGroup := range snapshot.LessonGroups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if assembled[lessonGroup.Id] {
			state.lessonGroup = lessonGroup.Id
			state.report(fmt.Errorf("%w: lesson-group %q is defined more than once", ErrDuplicateId, lessonGroup.Id), "", "")
			state.lessonGroup = ""
			continue
		}
		assembled[lessonGroup.Id] = true

		state.assembleLessonGroup(lessonGroup, courses[lessonGroup.Id])
	}

	assembler.logger.Info("activities assembled",
		zap.Int("classes", len(snapshot.Classes)),
		zap.Int("activities", state.activities.Len()),
		zap.Int("bits", table.Width),
		zap.Int("errors", len(state.errors)),
	)

	return &Model{
		Classes:    state.classes,
		Table:      table,
		Activities: state.activities,
		Errors:     state.errors,
	}, nil
}

// assembly holds the working state of one Assemble call.
type assembly struct {
	logger     *zap.Logger
	classes    map[string]*groups.ClassGroups
	homeRooms  map[string]string
	teachers   map[string]bool
	rooms      map[string]bool
	table      *bitmask.Table
	activities *Activities
	errors     []*AssemblyError

	lessonGroup string // Lesson-group being assembled, for error tags
}

func (state *assembly) report(err error, class, course string) {
	assemblyErr := newAssemblyError(err, class, state.lessonGroup, course)
	state.logger.Debug("assembly problem", zap.Error(assemblyErr))
	state.errors = append(state.errors, assemblyErr)
}

func (state *assembly) reportCourse(err error, course CourseEntry) {
	state.report(err, course.Class, course.Id)
}

func (state *assembly) assembleLessonGroup(lessonGroup LessonGroup, courses []CourseEntry) {
	state.lessonGroup = lessonGroup.Id
	defer func() { state.lessonGroup = "" }()

	teachers := make([]string, 0)
	classOrder := make([]string, 0)
	classAtoms := make(map[string][]groups.AtomicGroup)
	wishes := make([]rooms.Wish, 0)
	workloads := make(map[string]bool)
	subjects := make([]string, 0)

	for _, course := range courses {
		//** Teacher
		switch {
		case course.Teacher == "" || course.Teacher == NoTeacher:
		case !state.teachers[course.Teacher]:
			state.reportCourse(fmt.Errorf("%w: %q", ErrUnknownTeacher, course.Teacher), course)
		default:
			teachers = append(teachers, course.Teacher)
		}

		//** Class-group
		switch {
		case course.Group == "":
		case course.Class == "" || course.Class == NoClass:
			state.reportCourse(fmt.Errorf("%w: %q", ErrNullClassGroup, course.Group), course)
		default:
			classGroups, ok := state.classes[course.Class]
			if !ok {
				state.reportCourse(fmt.Errorf("%w: %q", ErrUnknownClass, course.Class), course)
				break
			}
			atoms, err := classGroups.GroupAtoms(course.Group)
			if err != nil {
				state.reportCourse(err, course)
				break
			}
			if _, ok := classAtoms[course.Class]; !ok {
				classOrder = append(classOrder, course.Class)
			}
			classAtoms[course.Class] = append(classAtoms[course.Class], atoms...)
		}

		if course.Subject != "" {
			subjects = append(subjects, course.Subject)
		}

		//** Room, once per workload
		if course.Workload != "" {
			if workloads[course.Workload] {
				continue
			}
			workloads[course.Workload] = true
		}
		if wish, ok := state.roomWish(course); ok {
			wishes = append(wishes, wish)
		}
	}

	teachers = lo.Uniq(teachers)
	subject := state.subject(lessonGroup, subjects)

	plan, err := rooms.Resolve(wishes)
	resolved := err == nil
	if err != nil {
		state.report(err, "", "")
		plan = rooms.Plan{}
	}

	classes := make([]ClassAtoms, 0, len(classOrder))
	for _, class := range classOrder {
		classGroups := state.classes[class]
		atoms := classGroups.Union(classAtoms[class])

		var group string
		if len(classGroups.NonEmpty()) == 0 {
			group = groups.Wildcard
		} else if len(atoms) == 0 {
			continue // The group only covers empty atoms
		} else {
			group, _ = classGroups.CanonicalName(atoms)
		}
		classes = append(classes, ClassAtoms{Class: class, Atoms: atoms, Group: group})
	}

	var mask bitmask.Mask
	for _, teacher := range teachers {
		mask = mask.Or(state.table.Teacher(teacher))
	}
	for _, class := range classes {
		mask = mask.Or(state.table.Cover(class.Class, class.Atoms))
	}

	courseIds := lo.Map(courses, func(course CourseEntry, _ int) string { return course.Id })

	for _, lesson := range lessonGroup.Lessons {
		length := lesson.Length
		if length <= 0 {
			length = 1
		}
		var fixed *Slot
		if lesson.Time != nil {
			slot := *lesson.Time
			fixed = &slot
		}

		state.activities.add(Activity{
			LessonGroup:   lessonGroup.Id,
			BlockTag:      lessonGroup.BlockTag,
			Subject:       subject,
			Length:        length,
			Time:          fixed,
			Teachers:      slices.Clone(teachers),
			Classes:       slices.Clone(classes),
			Rooms:         plan,
			RoomsResolved: resolved,
			Courses:       slices.Clone(courseIds),
			Mask:          mask,
		})
	}
}

// roomWish parses a course's room wish, replacing the home-room placeholder
// and dropping rooms missing from the room list.
func (state *assembly) roomWish(course CourseEntry) (rooms.Wish, bool) {
	wish := rooms.Split(course.Room)
	if wish.IsNone() {
		return wish, false
	}

	if slices.Contains(wish.Rooms, rooms.HomeRoom) {
		home := state.homeRooms[course.Class]
		if home == "" || home == NoRoom {
			state.reportCourse(fmt.Errorf("%w: class %q has no home room", ErrUnknownRoom, course.Class), course)
			home = ""
		}
		wish = wish.Substitute(home)
	}

	if len(state.rooms) > 0 {
		wish.Rooms = lo.Filter(wish.Rooms, func(room string, _ int) bool {
			if !state.rooms[room] {
				state.reportCourse(fmt.Errorf("%w: %q", ErrUnknownRoom, room), course)
				return false
			}
			return true
		})
	}

	return wish, !wish.IsNone()
}

// subject is the block subject for blocks, else the courses' common subject.
func (state *assembly) subject(lessonGroup LessonGroup, subjects []string) string {
	if lessonGroup.BlockSubject != "" {
		return lessonGroup.BlockSubject
	}

	subjects = lo.Uniq(subjects)
	if len(subjects) > 1 {
		state.report(fmt.Errorf("%w: %v", ErrSubjectMismatch, subjects), "", "")
	}
	if len(subjects) == 0 {
		return ""
	}
	return subjects[0]
}
