package groups

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// GroupAtoms resolves a group name to the atomic groups it covers. Dotted
// combinations of tags from different divisions ("A.G", "X.A") are accepted in
// any component order.
func (cg *ClassGroups) GroupAtoms(name string) ([]AtomicGroup, error) {
	name = strings.TrimSpace(name)
	if atoms, ok := cg.groupAtoms[name]; ok {
		return slices.Clone(atoms), nil
	}

	if !strings.Contains(name, componentSeparator) {
		return nil, &UnknownGroupError{Group: name}
	}

	// Intersection of the components
	used := make(map[int]bool)
	atoms := cg.working
	for _, component := range strings.Split(name, componentSeparator) {
		index, ok := cg.division[component]
		if !ok {
			return nil, &UnknownGroupError{Group: name, Reason: "unknown component " + component}
		} else if used[index] {
			return nil, &UnknownGroupError{Group: name, Reason: "more than one component from the same division"}
		}
		used[index] = true

		members := cg.groupAtoms[component]
		atoms = lo.Filter(atoms, func(atom AtomicGroup, _ int) bool {
			return slices.Contains(members, atom)
		})
	}

	return slices.Clone(atoms), nil
}

// GroupMap maps every named group of the class (groups, shortcuts, dotted
// subgroups in division order and the wildcard) to the atomic groups it covers.
func (cg *ClassGroups) GroupMap() map[string][]AtomicGroup {
	groupMap := make(map[string][]AtomicGroup, len(cg.groupAtoms))
	for name, atoms := range cg.groupAtoms {
		groupMap[name] = slices.Clone(atoms)
	}
	return groupMap
}

// Groups lists the named groups deterministically: per division its groups then
// its shortcuts, the wildcard last.
func (cg *ClassGroups) Groups() []string {
	names := make([]string, 0, len(cg.groupAtoms))
	for _, division := range cg.divisions {
		names = append(names, division.Groups...)
		names = append(names, lo.Map(division.Shortcuts, func(shortcut Shortcut, _ int) string { return shortcut.Name })...)
	}
	return append(names, Wildcard)
}

// PrimaryAtoms returns the atomic groups containing the given division group.
func (cg *ClassGroups) PrimaryAtoms(group string) []AtomicGroup {
	return slices.Clone(cg.primaryAtoms[group])
}

// CanonicalName renders a set of atomic groups as a group name, which
// GroupAtoms maps back to the same set. Components are ordered by division.
// When a division needs several of its groups the alphabetically first
// matching shortcut is used. The boolean is false when the set cannot be
// named (it is empty, contains foreign atoms or is not a product of division
// groups).
func (cg *ClassGroups) CanonicalName(atoms []AtomicGroup) (string, bool) {
	atoms = cg.normalize(atoms)
	if len(atoms) == 0 || lo.SomeBy(atoms, func(atom AtomicGroup) bool { return !slices.Contains(cg.working, atom) }) {
		return "", false
	} else if slices.Equal(atoms, cg.working) {
		return Wildcard, true
	}

	// Groups of each division touched by the set
	projections := make([][]string, len(cg.divisions))
	for index := range cg.divisions {
		projections[index] = lo.Uniq(lo.Map(atoms, func(atom AtomicGroup, _ int) string { return atom.Parts()[index] }))
	}

	// The set must be exactly the product of its projections
	candidates := lo.Filter(cg.working, func(atom AtomicGroup, _ int) bool {
		parts := atom.Parts()
		return lo.EveryBy(lo.Range(len(cg.divisions)), func(index int) bool {
			return slices.Contains(projections[index], parts[index])
		})
	})
	if !slices.Equal(candidates, atoms) {
		return "", false
	}

	components := make([]string, 0, len(cg.divisions))
	for index, division := range cg.divisions {
		present := lo.Filter(division.Groups, func(group string, _ int) bool {
			return len(cg.primaryAtoms[group]) > 0
		})
		projection := projections[index]

		if sameSet(projection, present) {
			continue // Unconstrained division
		} else if len(projection) == 1 {
			components = append(components, projection[0])
			continue
		}

		names := lo.FilterMap(division.Shortcuts, func(shortcut Shortcut, _ int) (string, bool) {
			covered := lo.Filter(cg.expansion[shortcut.Name], func(group string, _ int) bool {
				return len(cg.primaryAtoms[group]) > 0
			})
			return shortcut.Name, sameSet(covered, projection)
		})
		if len(names) == 0 {
			return "", false
		}
		slices.Sort(names)
		components = append(components, names[0])
	}

	return strings.Join(components, componentSeparator), true
}

func sameSet(a, b []string) bool {
	return len(lo.Uniq(a)) == len(lo.Uniq(b)) && lo.Every(a, b)
}
