// Package jobs runs the two daily phases on cron schedules.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/models"
	"github.com/bobmcallan/board-race/internal/race"
)

// Runner is the part of race.Service the scheduler drives.
type Runner interface {
	StartOfDay(ctx context.Context) (*models.DailyRecord, error)
	EndOfDay(ctx context.Context, dryRun bool) (*race.Report, error)
}

// Scheduler owns a cron instance with one entry per phase.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	logger  *common.Logger
	timeout time.Duration
	loc     *time.Location
	startID cron.EntryID
	endID   cron.EntryID

	// mu keeps the two phases from overlapping.
	mu sync.Mutex
}

// New parses both specs and registers the phases. Nothing runs until Start.
func New(cfg config.ScheduleConfig, loc *time.Location, runner Runner, logger *common.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	clog := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
		runner:  runner,
		logger:  logger,
		timeout: cfg.GetJobTimeout(),
		loc:     loc,
	}

	var err error
	if s.startID, err = s.cron.AddFunc(cfg.StartOfDay, func() { s.run("start_of_day", s.startOfDay) }); err != nil {
		return nil, fmt.Errorf("schedule start_of_day %q: %w", cfg.StartOfDay, err)
	}
	if s.endID, err = s.cron.AddFunc(cfg.EndOfDay, func() { s.run("end_of_day", s.endOfDay) }); err != nil {
		return nil, fmt.Errorf("schedule end_of_day %q: %w", cfg.EndOfDay, err)
	}
	return s, nil
}

// Start begins running entries in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	start, end := s.Next(time.Now())
	s.logger.Info().
		Str("start_of_day", start.Format(time.RFC3339)).
		Str("end_of_day", end.Format(time.RFC3339)).
		Msg("scheduler: started")
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the first activation of each phase after from, in the
// scheduler's location.
func (s *Scheduler) Next(from time.Time) (startOfDay, endOfDay time.Time) {
	from = from.In(s.loc)
	return s.cron.Entry(s.startID).Schedule.Next(from), s.cron.Entry(s.endID).Schedule.Next(from)
}

func (s *Scheduler) startOfDay(ctx context.Context) error {
	_, err := s.runner.StartOfDay(ctx)
	return err
}

func (s *Scheduler) endOfDay(ctx context.Context) error {
	_, err := s.runner.EndOfDay(ctx, false)
	return err
}

// run executes one phase under the shared lock with its own timeout and correlation ID.
func (s *Scheduler) run(phase string, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.logger.WithCorrelationId(uuid.NewString())
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	logger.Info().Str("phase", phase).Msg("scheduler: run started")

	err := fn(ctx)
	switch {
	case errors.Is(err, race.ErrNotCaptured):
		logger.Warn().Str("phase", phase).Str("error", err.Error()).Msg("scheduler: nothing to report")
	case err != nil:
		logger.Error().Str("phase", phase).Str("error", err.Error()).Msg("scheduler: run failed")
	default:
		logger.Info().
			Str("phase", phase).
			Dur("elapsed", time.Since(started)).
			Msg("scheduler: run finished")
	}
}

// cronLogger adapts common.Logger to cron.Logger.
type cronLogger struct {
	logger *common.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Str("fields", formatKV(keysAndValues)).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Str("error", err.Error()).Str("fields", formatKV(keysAndValues)).Msg("cron: " + msg)
}

func formatKV(kv []interface{}) string {
	out := ""
	for i := 0; i+1 < len(kv); i += 2 {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%v=%v", kv[i], kv[i+1])
	}
	return out
}
