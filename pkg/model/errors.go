package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/limaJavier/lessonplan/pkg/groups"
	"github.com/limaJavier/lessonplan/pkg/rooms"
)

var (
	ErrUnknownRoom        = errors.New("unknown room")
	ErrUnknownClass       = errors.New("unknown class")
	ErrUnknownTeacher     = errors.New("unknown teacher")
	ErrUnknownLessonGroup = errors.New("unknown lesson-group")
	ErrNullClassGroup     = errors.New("group given without a class")
	ErrSubjectMismatch    = errors.New("courses of a lesson-group differ in subject")
	ErrDuplicateId        = errors.New("duplicate id")
)

type Kind string

const (
	KindDivisionSyntax     Kind = "division-syntax"
	KindDuplicateGroup     Kind = "duplicate-group"
	KindEmptyGroup         Kind = "empty-group"
	KindUnknownGroup       Kind = "unknown-group"
	KindRoomConflict       Kind = "room-conflict"
	KindUnknownRoom        Kind = "unknown-room"
	KindUnknownClass       Kind = "unknown-class"
	KindUnknownTeacher     Kind = "unknown-teacher"
	KindUnknownLessonGroup Kind = "unknown-lesson-group"
	KindNullClassGroup     Kind = "null-class-group"
	KindSubjectMismatch    Kind = "subject-mismatch"
	KindDuplicateId        Kind = "duplicate-id"
	KindOther              Kind = "other"
)

var kinds = []struct {
	sentinel error
	kind     Kind
}{
	{groups.ErrDivisionSyntax, KindDivisionSyntax},
	{groups.ErrDuplicateGroup, KindDuplicateGroup},
	{groups.ErrInvalidEmptyList, KindEmptyGroup},
	{groups.ErrUnknownGroup, KindUnknownGroup},
	{rooms.ErrRoomConflict, KindRoomConflict},
	{ErrUnknownRoom, KindUnknownRoom},
	{ErrUnknownClass, KindUnknownClass},
	{ErrUnknownTeacher, KindUnknownTeacher},
	{ErrUnknownLessonGroup, KindUnknownLessonGroup},
	{ErrNullClassGroup, KindNullClassGroup},
	{ErrSubjectMismatch, KindSubjectMismatch},
	{ErrDuplicateId, KindDuplicateId},
}

// AssemblyError is a non-fatal problem found while assembling, tagged with
// the class, lesson-group and course it concerns.
type AssemblyError struct {
	Kind        Kind
	Class       string
	LessonGroup string
	Course      string
	Err         error
}

func newAssemblyError(err error, class, lessonGroup, course string) *AssemblyError {
	kind := KindOther
	for _, candidate := range kinds {
		if errors.Is(err, candidate.sentinel) {
			kind = candidate.kind
			break
		}
	}
	return &AssemblyError{Kind: kind, Class: class, LessonGroup: lessonGroup, Course: course, Err: err}
}

func (err *AssemblyError) Error() string {
	tags := make([]string, 0, 3)
	if err.Class != "" {
		tags = append(tags, "class "+err.Class)
	}
	if err.LessonGroup != "" {
		tags = append(tags, "lesson-group "+err.LessonGroup)
	}
	if err.Course != "" {
		tags = append(tags, "course "+err.Course)
	}
	if len(tags) == 0 {
		return fmt.Sprintf("%v: %v", err.Kind, err.Err)
	}
	return fmt.Sprintf("%v (%v): %v", err.Kind, strings.Join(tags, ", "), err.Err)
}

func (err *AssemblyError) Unwrap() error {
	return err.Err
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
