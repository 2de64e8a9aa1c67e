package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/board-race/internal/server"
)

var schedulePort int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run both phases on their cron schedules and serve health and metrics",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().IntVarP(&schedulePort, "port", "p", 0, "Server port (overrides config)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := openApp(schedulePort, true)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.NewScheduler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sched.Start()

	select {
	case <-ctx.Done():
		a.Logger.Info().Msg("shutdown signal received")
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		a.Logger.Error().Str("error", serr.Error()).Msg("server shutdown failed")
	}

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		a.Logger.Warn().Msg("scheduled run still in progress at shutdown")
	}

	a.Logger.Info().Msg("scheduler stopped")
	return err
}
