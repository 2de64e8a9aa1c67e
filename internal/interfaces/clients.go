package interfaces

import (
	"context"

	"github.com/bobmcallan/board-race/internal/models"
)

// BoardClient reads list membership from the task board.
type BoardClient interface {
	GetList(ctx context.Context, listID string) (*models.BoardList, error)
}

// Notifier delivers a report payload to the chat channel.
type Notifier interface {
	Send(ctx context.Context, payload *models.Payload) error
}
