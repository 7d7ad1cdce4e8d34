package rooms

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

var ErrRoomConflict = errors.New("room conflict")

// ConflictError reports room wishes that cannot all be met. Room is set when
// two wishes require the same fixed room.
type ConflictError struct {
	Room    string
	Choices [][]string
}

func (err *ConflictError) Error() string {
	if err.Room != "" {
		return fmt.Sprintf("room %q is required more than once", err.Room)
	}
	rendered := lo.Map(err.Choices, func(choice []string, _ int) string { return strings.Join(choice, choiceSeparator) })
	return fmt.Sprintf("no distinct rooms left for choices %v", rendered)
}

func (err *ConflictError) Unwrap() error {
	return ErrRoomConflict
}

// Plan is a conflict-free room requirement. Fixed rooms are needed as they
// are; each choice needs one further room from its list; each flexible list
// needs one further room, preferably from the list, otherwise any free one.
// Choices and flexible lists are ordered by length, most constrained first.
type Plan struct {
	Fixed    []string
	Choices  [][]string
	Flexible [][]string
}

// Wishes renders the plan back into wishes, so that resolving them again
// yields the same plan.
func (plan Plan) Wishes() []Wish {
	wishes := make([]Wish, 0, len(plan.Fixed)+len(plan.Choices)+len(plan.Flexible))
	for _, room := range plan.Fixed {
		wishes = append(wishes, Wish{Rooms: []string{room}})
	}
	for _, choice := range plan.Choices {
		wishes = append(wishes, Wish{Rooms: slices.Clone(choice)})
	}
	for _, flexible := range plan.Flexible {
		wishes = append(wishes, Wish{Rooms: slices.Clone(flexible), Open: true})
	}
	return wishes
}

func (plan Plan) IsEmpty() bool {
	return len(plan.Fixed) == 0 && len(plan.Choices) == 0 && len(plan.Flexible) == 0
}

// Rooms returns the number of rooms the plan occupies.
func (plan Plan) Rooms() int {
	return len(plan.Fixed) + len(plan.Choices) + len(plan.Flexible)
}

// Resolve reduces a collection of wishes (one per participating course, so
// duplicates are meaningful) to a plan. Fixed rooms are removed from every
// list; a choice left with a single room becomes fixed, until nothing changes.
// A room fixed twice, or choices that cannot get distinct rooms, is a
// ConflictError.
func Resolve(wishes []Wish) (Plan, error) {
	fixed := make([]string, 0)
	choices := make([][]string, 0)
	flexible := make([][]string, 0)

	for _, wish := range wishes {
		switch {
		case wish.Open:
			flexible = append(flexible, slices.Clone(wish.Rooms))
		case len(wish.Rooms) == 0:
			continue
		case len(wish.Rooms) == 1:
			if slices.Contains(fixed, wish.Rooms[0]) {
				return Plan{}, &ConflictError{Room: wish.Rooms[0]}
			}
			fixed = append(fixed, wish.Rooms[0])
		default:
			choices = append(choices, slices.Clone(wish.Rooms))
		}
	}

	for {
		promoted := false
		remaining := make([][]string, 0, len(choices))

		for _, choice := range choices {
			left := lo.Filter(choice, func(room string, _ int) bool { return !slices.Contains(fixed, room) })
			switch len(left) {
			case 0:
				return Plan{}, &ConflictError{Choices: [][]string{choice}}
			case 1:
				fixed = append(fixed, left[0])
				promoted = true
			default:
				remaining = append(remaining, left)
			}
		}

		choices = remaining
		if !promoted {
			break
		}
	}

	flexible = lo.Map(flexible, func(list []string, _ int) []string {
		return lo.Filter(list, func(room string, _ int) bool { return !slices.Contains(fixed, room) })
	})

	byLength := func(a, b []string) int { return len(a) - len(b) }
	slices.SortStableFunc(choices, byLength)
	slices.SortStableFunc(flexible, byLength)

	plan := Plan{Fixed: fixed, Choices: choices, Flexible: flexible}
	if _, err := plan.Assign(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Assign picks a distinct room for every choice by maximum bipartite
// matching. The result is parallel to plan.Choices.
func (plan Plan) Assign() ([]string, error) {
	if len(plan.Choices) == 0 {
		return []string{}, nil
	}

	candidates := lo.Uniq(lo.Flatten(plan.Choices))
	candidates = lo.Filter(candidates, func(room string, _ int) bool { return !slices.Contains(plan.Fixed, room) })

	choicesAny := lo.Map(lo.Range(len(plan.Choices)), func(choice int, _ int) any { return choice })
	candidatesAny := lo.Map(candidates, func(room string, _ int) any { return room })

	neighbors := func(choiceAny any, roomAny any) (bool, error) {
		return slices.Contains(plan.Choices[choiceAny.(int)], roomAny.(string)), nil
	}

	graph, err := bipartitegraph.NewBipartiteGraph(choicesAny, candidatesAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()
	if len(matching) < len(plan.Choices) {
		return nil, &ConflictError{Choices: plan.Choices}
	}

	assignment := make([]string, len(plan.Choices))
	for _, edge := range matching {
		choice, room := edge.Node1, edge.Node2-len(plan.Choices)
		assignment[choice] = candidates[room]
	}
	return assignment, nil
}
