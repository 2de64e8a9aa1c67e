package config

import "github.com/bobmcallan/board-race/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Board: BoardConfig{
			BaseURL:     "https://api.trello.com",
			Lists:       []string{},
			RateLimit:   10,
			Concurrency: 1,
			Timeout:     "30s",
		},
		Notify: NotifyConfig{
			Title:   "Trello race results",
			Timeout: "10s",
		},
		Schedule: ScheduleConfig{
			Timezone:   "Local",
			StartOfDay: "0 9 * * MON-FRI",
			EndOfDay:   "0 17 * * MON-FRI",
			JobTimeout: "5m",
		},
		Server: ServerConfig{
			Port: 4250,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/board-race",
			},
		},
		Metrics: MetricsConfig{
			Job: "board-race",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
		Messages: DefaultMessages(),
	}
}

// DefaultMessages returns the stock title and templates for each statistic.
func DefaultMessages() map[string]MessageConfig {
	return map[string]MessageConfig{
		"did_count": {
			Title:    "Cards finished",
			None:     "Unfortunately, nobody finished any cards today...",
			Single:   "Congratulations to {name} for finishing {count} card(s)!",
			Multiple: "Congratulations to {name} for finishing {count} card(s) each!",
		},
		"new_count": {
			Title:    "Cards received",
			None:     "Nobody got any new cards today, wtf?",
			Single:   "Congratulations to {name} for being busiest with {count} new card(s)!",
			Multiple: "Congratulations to {name} for being busiest with {count} new card(s) each!",
		},
		"net_count": {
			Title:    "Net result",
			None:     "Workload is steady, everybody finished with same number of cards as they started!",
			Single:   "Congratulations to {name} for ending the day with {count} fewer card(s)!",
			Multiple: "Congratulations to {name} for ending the day with {count} fewer card(s) each!",
		},
	}
}
