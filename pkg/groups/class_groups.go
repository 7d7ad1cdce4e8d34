package groups

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Wildcard names the whole class.
const Wildcard = "*"

const componentSeparator = "."

// AtomicGroup is the dotted combination of exactly one group per division,
// components ordered by division, e.g. "A.G".
type AtomicGroup string

func (atom AtomicGroup) Parts() []string {
	return strings.Split(string(atom), componentSeparator)
}

// Shortcut is an alias for the union of two or more tags of one division.
type Shortcut struct {
	Name    string
	Members []string
}

// Division is one independent way of splitting a class.
type Division struct {
	Groups    []string
	Shortcuts []Shortcut
}

// ClassGroups is the group structure of a single class. It is immutable once
// built; FilterEmpty returns a new value.
type ClassGroups struct {
	divisions []Division
	atoms     []AtomicGroup // Complete cartesian product, in product order
	ordinal   map[AtomicGroup]int
	division  map[string]int      // Division index of each group and shortcut
	expansion map[string][]string // Shortcut -> its primary groups

	empty        []AtomicGroup
	working      []AtomicGroup // Atoms not declared empty
	primaryAtoms map[string][]AtomicGroup
	groupAtoms   map[string][]AtomicGroup
	warnings     []error
}

func newClassGroups(divisions []Division) *ClassGroups {
	cg := &ClassGroups{
		divisions: divisions,
		ordinal:   make(map[AtomicGroup]int),
		division:  make(map[string]int),
		expansion: make(map[string][]string),
	}

	for index, division := range divisions {
		for _, group := range division.Groups {
			cg.division[group] = index
		}
		for _, shortcut := range division.Shortcuts {
			cg.division[shortcut.Name] = index
			primaries := make([]string, 0)
			for _, member := range shortcut.Members {
				if expanded, ok := cg.expansion[member]; ok {
					primaries = append(primaries, expanded...)
				} else {
					primaries = append(primaries, member)
				}
			}
			cg.expansion[shortcut.Name] = lo.Uniq(primaries)
		}
	}

	cg.atoms = product(divisions)
	for i, atom := range cg.atoms {
		cg.ordinal[atom] = i
	}

	return cg.withEmpty(nil, nil)
}

// product builds the cartesian product of the divisions' groups, the first
// division varying slowest. There are no atoms without divisions.
func product(divisions []Division) []AtomicGroup {
	if len(divisions) == 0 {
		return []AtomicGroup{}
	}

	combinations := []string{""}
	for _, division := range divisions {
		next := make([]string, 0, len(combinations)*len(division.Groups))
		for _, prefix := range combinations {
			for _, group := range division.Groups {
				if prefix == "" {
					next = append(next, group)
				} else {
					next = append(next, prefix+componentSeparator+group)
				}
			}
		}
		combinations = next
	}

	return lo.Map(combinations, func(combination string, _ int) AtomicGroup { return AtomicGroup(combination) })
}

// FilterEmpty returns a copy of the class with the given atomic groups
// declared empty, replacing any earlier declaration. Components of a name may
// be given in any order. Names which are not atomic groups of the class are
// ignored and reported through Warnings.
func (cg *ClassGroups) FilterEmpty(declared []string) *ClassGroups {
	empty := make([]AtomicGroup, 0, len(declared))
	warnings := make([]error, 0)

	for _, name := range declared {
		atom, ok := cg.atomFromName(name)
		if !ok {
			warnings = append(warnings, &EmptyGroupError{Group: name})
			continue
		}
		empty = append(empty, atom)
	}

	return cg.withEmpty(cg.normalize(empty), warnings)
}

func (cg *ClassGroups) withEmpty(empty []AtomicGroup, warnings []error) *ClassGroups {
	filtered := &ClassGroups{
		divisions: cg.divisions,
		atoms:     cg.atoms,
		ordinal:   cg.ordinal,
		division:  cg.division,
		expansion: cg.expansion,
		empty:     empty,
		warnings:  warnings,
	}

	filtered.working = lo.Filter(cg.atoms, func(atom AtomicGroup, _ int) bool {
		return !slices.Contains(empty, atom)
	})

	filtered.primaryAtoms = make(map[string][]AtomicGroup)
	for index, division := range cg.divisions {
		for _, group := range division.Groups {
			filtered.primaryAtoms[group] = lo.Filter(filtered.working, func(atom AtomicGroup, _ int) bool {
				return atom.Parts()[index] == group
			})
		}
	}

	filtered.groupAtoms = make(map[string][]AtomicGroup, len(filtered.primaryAtoms)+1)
	for group, atoms := range filtered.primaryAtoms {
		filtered.groupAtoms[group] = atoms
	}
	for shortcut, primaries := range cg.expansion {
		union := make([]AtomicGroup, 0)
		for _, primary := range primaries {
			union = append(union, filtered.primaryAtoms[primary]...)
		}
		filtered.groupAtoms[shortcut] = filtered.normalize(union)
	}
	filtered.addDottedGroups(0, nil, filtered.working)
	filtered.groupAtoms[Wildcard] = filtered.working

	return filtered
}

// addDottedGroups registers the composite subgroups: at most one tag (group or
// shortcut) per division, two tags at least, named in division order, e.g.
// "A.G" or "A.X". Their atoms are the intersection of the tags' atoms.
func (cg *ClassGroups) addDottedGroups(index int, components []string, atoms []AtomicGroup) {
	if index == len(cg.divisions) {
		if len(components) >= 2 {
			cg.groupAtoms[strings.Join(components, componentSeparator)] = atoms
		}
		return
	}

	cg.addDottedGroups(index+1, components, atoms)

	division := cg.divisions[index]
	tags := append(slices.Clone(division.Groups), lo.Map(division.Shortcuts, func(shortcut Shortcut, _ int) string { return shortcut.Name })...)
	for _, tag := range tags {
		members := cg.groupAtoms[tag]
		cg.addDottedGroups(index+1, append(slices.Clone(components), tag), lo.Filter(atoms, func(atom AtomicGroup, _ int) bool {
			return slices.Contains(members, atom)
		}))
	}
}

// atomFromName accepts an atomic group name with its components in any order.
func (cg *ClassGroups) atomFromName(name string) (AtomicGroup, bool) {
	components := strings.Split(strings.TrimSpace(name), componentSeparator)
	if len(components) != len(cg.divisions) {
		return "", false
	}

	parts := make([]string, len(cg.divisions))
	for _, component := range components {
		index, ok := cg.division[component]
		if !ok || !slices.Contains(cg.divisions[index].Groups, component) || parts[index] != "" {
			return "", false
		}
		parts[index] = component
	}

	atom := AtomicGroup(strings.Join(parts, componentSeparator))
	_, ok := cg.ordinal[atom]
	return atom, ok
}

// normalize removes duplicates and orders atoms by their position in the
// cartesian product.
func (cg *ClassGroups) normalize(atoms []AtomicGroup) []AtomicGroup {
	unique := lo.Uniq(atoms)
	slices.SortFunc(unique, func(a, b AtomicGroup) int {
		return cg.ordinal[a] - cg.ordinal[b]
	})
	return unique
}

func (cg *ClassGroups) Divisions() []Division {
	return slices.Clone(cg.divisions)
}

func (cg *ClassGroups) HasDivisions() bool {
	return len(cg.divisions) > 0
}

// AtomicGroups returns the complete cartesian product of the divisions,
// including atoms declared empty.
func (cg *ClassGroups) AtomicGroups() []AtomicGroup {
	return slices.Clone(cg.atoms)
}

// NonEmpty returns the atomic groups not declared empty.
func (cg *ClassGroups) NonEmpty() []AtomicGroup {
	return slices.Clone(cg.working)
}

func (cg *ClassGroups) Empty() []AtomicGroup {
	return slices.Clone(cg.empty)
}

// Warnings returns the non-fatal problems found while filtering empty groups.
func (cg *ClassGroups) Warnings() []error {
	return slices.Clone(cg.warnings)
}

// Union merges atom sets into one, in product order.
func (cg *ClassGroups) Union(sets ...[]AtomicGroup) []AtomicGroup {
	return cg.normalize(lo.Flatten(sets))
}
