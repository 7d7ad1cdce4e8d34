package model

// indexer interface is design to give a unique index to a placement variable's attributes (activity starts at day and period) and vice versa
type indexer interface {
	// Returns a unique index to a combination of placement variable's attributes
	Index(activity, day, period uint64) uint64
	// Returns a combination of placement variable's attributes from a unique index
	Attributes(index uint64) (activity, day, period uint64)
}

func newIndexer(activities, days, periods uint64) indexer {
	return &indexerImplementation{
		activities: activities,
		days:       days,
		periods:    periods,
	}
}
