package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/models"
)

// Config represents the application configuration.
type Config struct {
	Environment string                   `toml:"environment"`
	Board       BoardConfig              `toml:"board"`
	Notify      NotifyConfig             `toml:"notify"`
	Schedule    ScheduleConfig           `toml:"schedule"`
	Server      ServerConfig             `toml:"server"`
	Storage     StorageConfig            `toml:"storage"`
	Metrics     MetricsConfig            `toml:"metrics"`
	Logging     common.LoggingConfig     `toml:"logging"`
	Messages    map[string]MessageConfig `toml:"messages"`
}

// BoardConfig contains Trello API settings and the tracked lists.
type BoardConfig struct {
	BaseURL     string   `toml:"base_url"`
	APIKey      string   `toml:"api_key"`
	APIToken    string   `toml:"api_token"`
	Lists       []string `toml:"lists"`
	RateLimit   float64  `toml:"rate_limit"`
	Concurrency int      `toml:"concurrency"`
	Timeout     string   `toml:"timeout"`
}

// GetTimeout parses the request timeout, falling back to 30s.
func (c *BoardConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// NotifyConfig contains the chat webhook settings.
type NotifyConfig struct {
	WebhookURL string `toml:"webhook_url"`
	Title      string `toml:"title"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses the delivery timeout, falling back to 10s.
func (c *NotifyConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// ScheduleConfig contains the cron specs for the two daily phases.
type ScheduleConfig struct {
	Timezone   string `toml:"timezone"`
	StartOfDay string `toml:"start_of_day"`
	EndOfDay   string `toml:"end_of_day"`
	JobTimeout string `toml:"job_timeout"`
}

// GetJobTimeout parses the per-run timeout, falling back to 5m.
func (c *ScheduleConfig) GetJobTimeout() time.Duration {
	return parseDuration(c.JobTimeout, 5*time.Minute)
}

// ServerConfig contains HTTP server settings used while scheduling.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	PushURL string `toml:"push_url"`
	Job     string `toml:"job"`
}

// MessageConfig is the title and message templates for one statistic.
// Templates may reference {name} and {count}.
type MessageConfig struct {
	Title    string `toml:"title"`
	None     string `toml:"none"`
	Single   string `toml:"single"`
	Multiple string `toml:"multiple"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	fillMessageDefaults(config)

	return config, nil
}

// applyEnvOverrides applies BOARD_RACE_* and credential environment variables.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BOARD_RACE_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("BOARD_RACE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BOARD_RACE_HOST"); host != "" {
		config.Server.Host = host
	}
	if badgerPath := os.Getenv("BOARD_RACE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("BOARD_RACE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if tz := os.Getenv("BOARD_RACE_TIMEZONE"); tz != "" {
		config.Schedule.Timezone = tz
	}
	if lists := os.Getenv("BOARD_RACE_LISTS"); lists != "" {
		config.Board.Lists = splitList(lists)
	}
	if push := os.Getenv("BOARD_RACE_PUSH_URL"); push != "" {
		config.Metrics.PushURL = push
	}

	// Unprefixed credential names.
	if key := os.Getenv("TRELLO_API_KEY"); key != "" {
		config.Board.APIKey = key
	}
	if token := os.Getenv("TRELLO_API_TOKEN"); token != "" {
		config.Board.APIToken = token
	}
	if hook := os.Getenv("SLACK_WEBHOOK_URL"); hook != "" {
		config.Notify.WebhookURL = hook
	}
}

// fillMessageDefaults restores any statistic whose templates a file left blank.
func fillMessageDefaults(config *Config) {
	defaults := DefaultMessages()
	if config.Messages == nil {
		config.Messages = defaults
		return
	}
	for key, def := range defaults {
		msg := config.Messages[key]
		if msg.Title == "" {
			msg.Title = def.Title
		}
		if msg.None == "" {
			msg.None = def.None
		}
		if msg.Single == "" {
			msg.Single = def.Single
		}
		if msg.Multiple == "" {
			msg.Multiple = def.Multiple
		}
		config.Messages[key] = msg
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, logLevel string) {
	if port > 0 {
		config.Server.Port = port
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
}

// Location resolves the schedule timezone. Empty means the process local zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Schedule.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Validate reports every setting a board run cannot do without.
func (c *Config) Validate() error {
	var errs []error
	if c.Board.BaseURL == "" {
		errs = append(errs, errors.New("board.base_url is required"))
	}
	if c.Board.APIKey == "" {
		errs = append(errs, errors.New("board.api_key (TRELLO_API_KEY) is required"))
	}
	if c.Board.APIToken == "" {
		errs = append(errs, errors.New("board.api_token (TRELLO_API_TOKEN) is required"))
	}
	if len(c.Board.Lists) == 0 {
		errs = append(errs, errors.New("board.lists must name at least one list"))
	}
	if c.Board.RateLimit < 0 {
		errs = append(errs, errors.New("board.rate_limit must not be negative"))
	}
	if c.Notify.WebhookURL == "" {
		errs = append(errs, errors.New("notify.webhook_url (SLACK_WEBHOOK_URL) is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	for _, d := range []struct{ name, value string }{
		{"board.timeout", c.Board.Timeout},
		{"notify.timeout", c.Notify.Timeout},
		{"schedule.job_timeout", c.Schedule.JobTimeout},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
		}
	}
	for _, spec := range []struct{ name, value string }{
		{"schedule.start_of_day", c.Schedule.StartOfDay},
		{"schedule.end_of_day", c.Schedule.EndOfDay},
	} {
		if _, err := cron.ParseStandard(spec.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", spec.name, err))
		}
	}
	for _, key := range models.StatKeys {
		if _, ok := c.Messages[string(key)]; !ok {
			errs = append(errs, fmt.Errorf("messages.%s is missing", key))
		}
	}
	return errors.Join(errs...)
}

// IsDevMode reports whether the environment is "dev".
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
