package rooms

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	HomeRoom = "$"  // The home room of the course's class
	NoRoom   = "--" // Reserved room id, no room needed

	openMarker      = "+"
	choiceSeparator = "/"
)

// Wish is one parsed room requirement: a list of acceptable rooms in order of
// preference. An open wish accepts any free room when none of its list is
// available.
type Wish struct {
	Rooms []string
	Open  bool
}

// Split parses a raw room wish such as "R1", "R1/R2", "R1/R2+", "$" or "+".
// An empty wish and NoRoom need no room at all.
func Split(raw string) Wish {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == NoRoom {
		return Wish{}
	}

	var wish Wish
	if strings.HasSuffix(raw, openMarker) {
		wish.Open = true
		raw = strings.TrimSuffix(raw, openMarker)
	}

	if raw != "" {
		wish.Rooms = lo.Uniq(lo.FilterMap(strings.Split(raw, choiceSeparator), func(room string, _ int) (string, bool) {
			room = strings.TrimSpace(room)
			return room, room != ""
		}))
	}

	return wish
}

// IsNone reports whether the wish needs no room.
func (wish Wish) IsNone() bool {
	return !wish.Open && len(wish.Rooms) == 0
}

// Substitute replaces the HomeRoom placeholder by the given room. An empty
// home room removes the placeholder.
func (wish Wish) Substitute(home string) Wish {
	rooms := make([]string, 0, len(wish.Rooms))
	for _, room := range wish.Rooms {
		if room == HomeRoom {
			room = home
		}
		if room != "" {
			rooms = append(rooms, room)
		}
	}
	return Wish{Rooms: lo.Uniq(rooms), Open: wish.Open}
}

// String renders the wish in the same form Split reads.
func (wish Wish) String() string {
	text := strings.Join(wish.Rooms, choiceSeparator)
	if wish.Open {
		return text + openMarker
	}
	return text
}

func (wish Wish) Equal(other Wish) bool {
	return wish.Open == other.Open && slices.Equal(wish.Rooms, other.Rooms)
}
