package race

import "github.com/bobmcallan/board-race/internal/models"

// ComputeStats compares the morning and evening cards of one list.
//
// did and new are set differences. net subtracts the raw evening length from
// the distinct morning count, so duplicate IDs in current lower net without
// touching did or new.
func ComputeStats(displayName string, initial, current models.CardSet) models.ListStats {
	before := initial.Set()
	after := current.Set()

	did := 0
	for id := range before {
		if _, ok := after[id]; !ok {
			did++
		}
	}
	added := 0
	for id := range after {
		if _, ok := before[id]; !ok {
			added++
		}
	}

	return models.ListStats{
		DisplayName: displayName,
		DidCount:    did,
		NewCount:    added,
		NetCount:    len(before) - len(current),
	}
}
