// Command board-race captures Trello list membership in the morning and
// posts the day's race results to Slack in the evening.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/board-race/internal/app"
	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "board-race:", err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var (
	configFiles []string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "board-race",
	Short:         "Daily Trello list race results for Slack",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e exitError) ExitCode() int { return e.code }

func (e exitError) Unwrap() error { return e.err }

// loadConfig applies defaults, config files, env and flags in that order.
func loadConfig(port int) (*config.Config, []string, error) {
	paths := configFiles
	if len(paths) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				paths = []string{path}
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		return nil, nil, err
	}
	config.ApplyFlagOverrides(cfg, port, logLevel)
	return cfg, paths, nil
}

// openApp loads configuration and wires the application. validate is false
// for commands that only read the local store.
func openApp(port int, validate bool) (*app.App, error) {
	config.LoadVersionFile()

	cfg, paths, err := loadConfig(port)
	if err != nil {
		return nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("configuration: %w", err)
		}
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)
	logger.Debug().
		Strs("config_files", paths).
		Str("environment", cfg.Environment).
		Msg("configuration loaded")

	return app.New(cfg, logger)
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"board-race.toml",
		filepath.Join("docker", "board-race.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{filepath.Join(binDir, "board-race.toml")}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
