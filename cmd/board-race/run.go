package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/board-race/internal/race"
)

var dryRun bool

var startOfDayCmd = &cobra.Command{
	Use:   "start-of-day",
	Short: "Snapshot every tracked list under today's date",
	Args:  cobra.NoArgs,
	RunE:  runStartOfDay,
}

var endOfDayCmd = &cobra.Command{
	Use:   "end-of-day",
	Short: "Compare against this morning's snapshot and post the results",
	Args:  cobra.NoArgs,
	RunE:  runEndOfDay,
}

func init() {
	rootCmd.AddCommand(startOfDayCmd, endOfDayCmd)
	endOfDayCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the payload without storing or sending it")
}

func runStartOfDay(cmd *cobra.Command, args []string) error {
	a, err := openApp(0, true)
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.PushMetrics(context.Background())

	rec, err := a.Race.StartOfDay(cmd.Context())
	if err != nil {
		a.Logger.Error().Str("error", err.Error()).Msg("start of day failed")
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "captured %s: %d lists\n", rec.Date, len(rec.StartOfDay))
	return nil
}

func runEndOfDay(cmd *cobra.Command, args []string) error {
	a, err := openApp(0, true)
	if err != nil {
		return err
	}
	defer a.Close()
	if !dryRun {
		defer a.PushMetrics(context.Background())
	}

	report, err := a.Race.EndOfDay(cmd.Context(), dryRun)
	if errors.Is(err, race.ErrNotCaptured) {
		a.Logger.Warn().Str("error", err.Error()).Msg("end of day skipped")
		return exitError{code: 2, err: err}
	}
	if err != nil {
		a.Logger.Error().Str("error", err.Error()).Msg("end of day failed")
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Payload)
	}
	fmt.Fprintf(out, "reported %s: %d lists\n", report.Record.Date, len(report.Record.Stats))
	return nil
}
