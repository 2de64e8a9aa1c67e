package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/board-race/internal/models"
)

// TrelloConfig holds what the client needs to reach the Trello REST API.
type TrelloConfig struct {
	BaseURL   string
	APIKey    string
	APIToken  string
	RateLimit float64 // requests per second, 0 disables pacing
	Timeout   time.Duration
}

// TrelloClient reads list membership from the Trello REST API.
type TrelloClient struct {
	baseURL    string
	apiKey     string
	apiToken   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTrelloClient creates a client from explicit credentials.
func NewTrelloClient(cfg TrelloConfig) *TrelloClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &TrelloClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

type trelloList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards []struct {
		ID string `json:"id"`
	} `json:"cards"`
}

// GetList fetches a list's name and its open cards in one request.
// GET /1/lists/{id}?fields=name&cards=open&card_fields=id
func (c *TrelloClient) GetList(ctx context.Context, listID string) (*models.BoardList, error) {
	if listID == "" {
		return nil, fmt.Errorf("empty list id")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("fields", "name")
	q.Set("cards", "open")
	q.Set("card_fields", "id")
	q.Set("key", c.apiKey)
	q.Set("token", c.apiToken)
	endpoint := c.baseURL + "/1/lists/" + url.PathEscape(listID) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach trello: %w", redact(err, c.apiKey, c.apiToken))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("list not found: %s", listID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trello returned %d for list %s: %s", resp.StatusCode, listID, strings.TrimSpace(string(body)))
	}

	var result trelloList
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse list %s: %w", listID, err)
	}

	cards := make(models.CardSet, 0, len(result.Cards))
	for _, card := range result.Cards {
		cards = append(cards, card.ID)
	}

	id := result.ID
	if id == "" {
		id = listID
	}
	return &models.BoardList{ID: id, Name: result.Name, Cards: cards}, nil
}

// redact strips credentials that net/http echoes back inside *url.Error.
func redact(err error, secrets ...string) error {
	msg := err.Error()
	for _, s := range secrets {
		if s != "" {
			msg = strings.ReplaceAll(msg, s, "REDACTED")
		}
	}
	return fmt.Errorf("%s", msg)
}
