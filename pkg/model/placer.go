package model

// Grid is the weekly time grid: Days days of Periods periods each.
type Grid struct {
	Days    int `mapstructure:"days"`
	Periods int `mapstructure:"periods"`
}

// Placement states that an activity starts at the given day and period.
type Placement struct {
	Activity int `json:"activity"`
	Day      int `json:"day"`
	Period   int `json:"period"`
}

type Placer interface {
	// Build places every activity of the model on the grid. Placements is nil
	// when no placement exists.
	Build(
		model *Model,
		grid Grid,
	) (placements []Placement, variables uint64, clauses uint64, err error)

	Verify(
		placements []Placement,
		model *Model,
		grid Grid,
	) bool
}
