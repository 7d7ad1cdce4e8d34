package groups

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const (
	divisionSeparator  = ";"
	groupSeparator     = "+"
	shortcutSeparator  = "/"
	shortcutAssignment = "="
	emptySeparator     = "-"
)

// Parse reads a class's division definition, e.g. "A+B;G+R/X=G+R-A.R".
//
// Divisions are separated by ";", the groups of a division by "+". A division
// may carry shortcuts ("/name=g1+g2") standing for the union of two or more of
// its groups. A trailing "-"-separated list names atomic groups known to be
// empty.
//
// Parse never returns a nil ClassGroups: faulty divisions are reported (joined
// into the returned error) and left out, the remaining divisions are kept.
func Parse(definition string) (*ClassGroups, error) {
	parts := strings.Split(strings.TrimSpace(definition), emptySeparator)
	divisionsText, emptyNames := strings.TrimSpace(parts[0]), parts[1:]

	divisions := make([]Division, 0)
	errs := make([]error, 0)
	defined := make(map[string]bool) // Tags (groups and shortcuts) defined by the accepted divisions

	if divisionsText != "" {
		for index, text := range strings.Split(divisionsText, divisionSeparator) {
			division, err := parseDivision(index, strings.TrimSpace(text), defined)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			for _, group := range division.Groups {
				defined[group] = true
			}
			for _, shortcut := range division.Shortcuts {
				defined[shortcut.Name] = true
			}
			divisions = append(divisions, division)
		}
	}

	declared := lo.FilterMap(emptyNames, func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	})

	return newClassGroups(divisions).FilterEmpty(declared), errors.Join(errs...)
}

func parseDivision(index int, text string, defined map[string]bool) (Division, error) {
	segments := strings.Split(text, shortcutSeparator)
	groups := lo.Map(strings.Split(segments[0], groupSeparator), func(group string, _ int) string {
		return strings.TrimSpace(group)
	})

	if len(groups) < 2 {
		return Division{}, &DivisionError{Division: text, Index: index, Reason: "a division needs at least two groups"}
	}

	local := make(map[string]bool)
	for _, group := range groups {
		if !isTag(group) {
			return Division{}, &DivisionError{Division: text, Index: index, Reason: fmt.Sprintf("invalid group tag %q", group)}
		}
		if local[group] || defined[group] {
			return Division{}, &DuplicateGroupError{Group: group, Division: text, Index: index}
		}
		local[group] = true
	}

	shortcuts := make([]Shortcut, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		shortcut, err := parseShortcut(segment, local, defined)
		if err != nil {
			return Division{}, &DivisionError{Division: text, Index: index, Reason: err.Error()}
		}
		local[shortcut.Name] = true
		shortcuts = append(shortcuts, shortcut)
	}

	return Division{Groups: groups, Shortcuts: shortcuts}, nil
}

// parseShortcut reads "name=g1+g2"; local holds the tags already defined in
// the same division (its groups and earlier shortcuts).
func parseShortcut(text string, local, defined map[string]bool) (Shortcut, error) {
	name, membersText, ok := strings.Cut(text, shortcutAssignment)
	if !ok {
		return Shortcut{}, fmt.Errorf("malformed shortcut %q", text)
	}

	name = strings.TrimSpace(name)
	if !isTag(name) {
		return Shortcut{}, fmt.Errorf("invalid shortcut name %q", name)
	} else if local[name] || defined[name] {
		return Shortcut{}, fmt.Errorf("duplicate alias %q", name)
	}

	members := lo.Map(strings.Split(membersText, groupSeparator), func(member string, _ int) string {
		return strings.TrimSpace(member)
	})
	if len(members) < 2 {
		return Shortcut{}, fmt.Errorf("shortcut %q needs at least two members", name)
	}

	seen := make(map[string]bool)
	for _, member := range members {
		if !local[member] {
			return Shortcut{}, fmt.Errorf("shortcut %q: undefined member %q", name, member)
		} else if seen[member] {
			return Shortcut{}, fmt.Errorf("shortcut %q: member %q repeated", name, member)
		}
		seen[member] = true
	}

	return Shortcut{Name: name, Members: members}, nil
}

func isTag(tag string) bool {
	return tag != "" && lo.EveryBy([]rune(tag), func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}
