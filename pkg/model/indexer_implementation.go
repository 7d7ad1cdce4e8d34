package model

type indexerImplementation struct {
	activities uint64
	days       uint64
	periods    uint64
}

// Variables are 1-based, as DIMACS reserves 0 as clause terminator
func (indexer *indexerImplementation) Index(activity, day, period uint64) uint64 {
	return period + indexer.periods*day + indexer.periods*indexer.days*activity + 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (activity, day, period uint64) {
	index = index - 1
	period = index % indexer.periods
	index = index / indexer.periods

	day = index % indexer.days
	index = index / indexer.days

	activity = index % indexer.activities

	return activity, day, period
}

