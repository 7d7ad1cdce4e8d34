package bitmask

import (
	"errors"
	"fmt"

	"github.com/limaJavier/lessonplan/pkg/groups"
)

const (
	NoTeacher = "--" // Reserved teacher id, its mask is zero
	NoClass   = "--" // Reserved class id, its masks are zero
)

var ErrBitSpaceExhausted = errors.New("bit space exhausted")

type ExhaustedError struct {
	Capacity int
	Resource string
}

func (err *ExhaustedError) Error() string {
	return fmt.Sprintf("cannot allocate a bit for %v: all %d bits are in use", err.Resource, err.Capacity)
}

func (err *ExhaustedError) Unwrap() error {
	return ErrBitSpaceExhausted
}

// Allocator hands out bit positions from a single counter. Sharing one
// allocator between teachers and all classes keeps every bit unique.
type Allocator struct {
	capacity int // Negative means unbounded
	next     int
}

// NewAllocator returns an allocator limited to capacity bits; a capacity of
// zero (or above FixedWidth) is clamped to FixedWidth.
func NewAllocator(capacity int) *Allocator {
	if capacity <= 0 || capacity > FixedWidth {
		capacity = FixedWidth
	}
	return &Allocator{capacity: capacity}
}

// NewWideAllocator returns an allocator without a limit; masks beyond
// FixedWidth bits use overflow words.
func NewWideAllocator() *Allocator {
	return &Allocator{capacity: -1}
}

func (allocator *Allocator) take(resource string) (Mask, error) {
	if allocator.capacity >= 0 && allocator.next >= allocator.capacity {
		return Mask{}, &ExhaustedError{Capacity: allocator.capacity, Resource: resource}
	}
	bit := Bit(allocator.next)
	allocator.next++
	return bit, nil
}

// Used returns the number of bits handed out so far.
func (allocator *Allocator) Used() int {
	return allocator.next
}

// AllocateTeachers gives every teacher a distinct bit, in list order. The
// NoTeacher sentinel gets the zero mask. The index of a teacher is its
// position in the list.
func (allocator *Allocator) AllocateTeachers(ids []string) (map[string]Mask, map[string]int, error) {
	teacherBits := make(map[string]Mask, len(ids))
	teacherIndex := make(map[string]int, len(ids))

	for i, id := range ids {
		if _, ok := teacherIndex[id]; ok {
			continue
		}
		teacherIndex[id] = i

		if id == NoTeacher {
			teacherBits[id] = Mask{}
			continue
		}

		bit, err := allocator.take("teacher " + id)
		if err != nil {
			return nil, nil, err
		}
		teacherBits[id] = bit
	}

	return teacherBits, teacherIndex, nil
}

// ClassSpec pairs a class id with its parsed groups.
type ClassSpec struct {
	Id     string
	Groups *groups.ClassGroups
}

// ClassMasks holds the masks of one class.
type ClassMasks struct {
	Atoms  map[groups.AtomicGroup]Mask
	Groups map[string]Mask
	Whole  Mask
}

// Cover returns the mask of a set of atomic groups. An undivided class has
// no atoms, its participation always means the whole class.
func (masks *ClassMasks) Cover(atoms []groups.AtomicGroup) Mask {
	if len(masks.Atoms) == 0 {
		return masks.Whole
	}

	var mask Mask
	for _, atom := range atoms {
		mask = mask.Or(masks.Atoms[atom])
	}
	return mask
}

// AllocateClasses gives every non-empty atomic group of every class its own
// bit and derives the mask of each named group. Classes without atoms get a
// single bit for the whole class, except NoClass which gets zero masks.
func (allocator *Allocator) AllocateClasses(classes []ClassSpec) (map[string]*ClassMasks, error) {
	classMasks := make(map[string]*ClassMasks, len(classes))

	for _, class := range classes {
		if _, ok := classMasks[class.Id]; ok {
			continue
		}

		masks := &ClassMasks{
			Atoms:  make(map[groups.AtomicGroup]Mask),
			Groups: make(map[string]Mask),
		}
		classMasks[class.Id] = masks

		if class.Id == NoClass {
			masks.Groups[groups.Wildcard] = Mask{}
			continue
		}

		atoms := make([]groups.AtomicGroup, 0)
		if class.Groups != nil {
			atoms = class.Groups.NonEmpty()
		}

		if len(atoms) == 0 {
			bit, err := allocator.take("class " + class.Id)
			if err != nil {
				return nil, err
			}
			masks.Whole = bit
			masks.Groups[groups.Wildcard] = bit
			continue
		}

		for _, atom := range atoms {
			bit, err := allocator.take(fmt.Sprintf("class %v group %v", class.Id, atom))
			if err != nil {
				return nil, err
			}
			masks.Atoms[atom] = bit
			masks.Whole = masks.Whole.Or(bit)
		}

		for group, groupAtoms := range class.Groups.GroupMap() {
			masks.Groups[group] = masks.Cover(groupAtoms)
		}
	}

	return classMasks, nil
}
