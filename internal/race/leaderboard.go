package race

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/models"
)

// BuildLeaderboard finds the highest value of key across all lists and the
// display names of every list holding it. Lists are visited in ascending ID
// order. A maximum of zero or below yields no winners.
func BuildLeaderboard(key models.StatKey, stats map[string]models.ListStats) models.LeaderboardEntry {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entry := models.LeaderboardEntry{Stat: key}
	for i, id := range ids {
		if v := stats[id].Value(key); i == 0 || v > entry.Count {
			entry.Count = v
		}
	}
	if entry.Count <= 0 {
		return entry
	}
	for _, id := range ids {
		if st := stats[id]; st.Value(key) == entry.Count {
			entry.Winners = append(entry.Winners, st.DisplayName)
		}
	}
	return entry
}

// Render picks the template for entry and returns the attachment for it.
func Render(entry models.LeaderboardEntry, msg config.MessageConfig) models.Attachment {
	var (
		tpl   string
		name  string
		color string
	)
	switch {
	case entry.Count < 0 || len(entry.Winners) == 0:
		tpl, color = msg.None, models.ColorWarning
	case len(entry.Winners) > 1:
		tpl, name, color = msg.Multiple, strings.Join(entry.Winners, ", "), models.ColorGood
	default:
		tpl, name, color = msg.Single, entry.Winners[0], models.ColorGood
	}

	text := strings.NewReplacer(
		"{name}", name,
		"{count}", strconv.Itoa(entry.Count),
	).Replace(tpl)

	return models.Attachment{
		Fallback: "",
		Title:    msg.Title,
		Text:     text,
		Color:    color,
	}
}
