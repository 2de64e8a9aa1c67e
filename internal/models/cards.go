package models

// BoardList is one list as read from the board service.
type BoardList struct {
	ID    string
	Name  string
	Cards CardSet
}

// CardSet holds card IDs in the order the board returned them.
type CardSet []string

// Set returns the distinct card IDs.
func (c CardSet) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(c))
	for _, id := range c {
		set[id] = struct{}{}
	}
	return set
}

// Distinct returns the number of distinct card IDs.
func (c CardSet) Distinct() int {
	return len(c.Set())
}
