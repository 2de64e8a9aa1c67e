package models

// StatKey names one of the three per-list statistics.
type StatKey string

const (
	StatDid StatKey = "did_count"
	StatNew StatKey = "new_count"
	StatNet StatKey = "net_count"
)

// StatKeys lists the statistics in report order: finished, received, net.
var StatKeys = []StatKey{StatDid, StatNew, StatNet}

// ListStats is the day-over-day movement of one list.
type ListStats struct {
	DisplayName string `json:"display_name"`
	DidCount    int    `json:"did_count"`
	NewCount    int    `json:"new_count"`
	NetCount    int    `json:"net_count"`
}

// Value returns the statistic named by key.
func (s ListStats) Value(key StatKey) int {
	switch key {
	case StatDid:
		return s.DidCount
	case StatNew:
		return s.NewCount
	case StatNet:
		return s.NetCount
	}
	return 0
}

// LeaderboardEntry is the winning count for one statistic and the lists tied at it.
type LeaderboardEntry struct {
	Stat    StatKey
	Count   int
	Winners []string
}
