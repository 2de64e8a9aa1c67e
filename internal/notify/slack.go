// Package notify delivers report payloads to Slack incoming webhooks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/board-race/internal/models"
)

// SlackNotifier posts payloads to one incoming-webhook URL.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackNotifier creates a notifier for webhookURL.
func NewSlackNotifier(webhookURL string, timeout time.Duration) *SlackNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts payload as JSON. Any non-2xx response is an error; nothing is retried.
func (n *SlackNotifier) Send(ctx context.Context, payload *models.Payload) error {
	if n.webhookURL == "" {
		return fmt.Errorf("slack: missing webhook url")
	}
	if payload == nil {
		return fmt.Errorf("slack: nil payload")
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("slack: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("slack: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		// The webhook URL is itself the credential.
		return fmt.Errorf("slack: post failed: %s", strings.ReplaceAll(err.Error(), n.webhookURL, "<webhook>"))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("slack: webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
