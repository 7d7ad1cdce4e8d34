package bitmask

import (
	"github.com/limaJavier/lessonplan/pkg/groups"
)

// Table is the read-only result of one allocation run: a bit per teacher and
// a mask per named group of every class.
type Table struct {
	Teachers     map[string]Mask
	TeacherIndex map[string]int
	Classes      map[string]*ClassMasks
	Width        int // Bits in use
}

// Build allocates teachers first, then classes, from the same allocator.
func Build(allocator *Allocator, teachers []string, classes []ClassSpec) (*Table, error) {
	teacherBits, teacherIndex, err := allocator.AllocateTeachers(teachers)
	if err != nil {
		return nil, err
	}

	classMasks, err := allocator.AllocateClasses(classes)
	if err != nil {
		return nil, err
	}

	return &Table{
		Teachers:     teacherBits,
		TeacherIndex: teacherIndex,
		Classes:      classMasks,
		Width:        allocator.Used(),
	}, nil
}

// Teacher returns the teacher's bit; unknown teachers get the zero mask.
func (table *Table) Teacher(id string) Mask {
	return table.Teachers[id]
}

func (table *Table) Group(class, group string) (Mask, bool) {
	masks, ok := table.Classes[class]
	if !ok {
		return Mask{}, false
	}
	mask, ok := masks.Groups[group]
	return mask, ok
}

// Cover returns the mask of a set of atomic groups of a class.
func (table *Table) Cover(class string, atoms []groups.AtomicGroup) Mask {
	masks, ok := table.Classes[class]
	if !ok {
		return Mask{}
	}
	return masks.Cover(atoms)
}
