package race

import (
	"fmt"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/models"
)

// DefaultTitle heads the notification when none is configured.
const DefaultTitle = "Trello race results"

// BuildPayload assembles the notification for one day: a bold header and one
// attachment per statistic in report order.
func BuildPayload(title, date string, stats map[string]models.ListStats, messages map[string]config.MessageConfig) (*models.Payload, error) {
	day, err := common.FormatReportDate(date)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = DefaultTitle
	}

	payload := &models.Payload{
		Text:        fmt.Sprintf("*%s for %s*", title, day),
		Attachments: make([]models.Attachment, 0, len(models.StatKeys)),
	}
	for _, key := range models.StatKeys {
		msg, ok := messages[string(key)]
		if !ok {
			return nil, fmt.Errorf("no messages configured for %s", key)
		}
		payload.Attachments = append(payload.Attachments, Render(BuildLeaderboard(key, stats), msg))
	}
	return payload, nil
}
