package race

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/interfaces"
	"github.com/bobmcallan/board-race/internal/metrics"
	"github.com/bobmcallan/board-race/internal/models"
)

// Options configures a Service.
type Options struct {
	Lists       []string
	Title       string
	Messages    map[string]config.MessageConfig
	Concurrency int
	Location    *time.Location
	Now         func() time.Time
}

// OptionsFromConfig maps the loaded configuration onto service options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Lists:       cfg.Board.Lists,
		Title:       cfg.Notify.Title,
		Messages:    cfg.Messages,
		Concurrency: cfg.Board.Concurrency,
		Location:    loc,
	}, nil
}

// Report is the outcome of an end-of-day run.
type Report struct {
	Record  *models.DailyRecord
	Payload *models.Payload
}

// Service runs the capture and report phases against its collaborators.
type Service struct {
	opts     Options
	board    interfaces.BoardClient
	records  interfaces.RecordStorage
	notifier interfaces.Notifier
	metrics  *metrics.Metrics
	logger   *common.Logger
}

// NewService creates a race service. m may be nil.
func NewService(opts Options, board interfaces.BoardClient, records interfaces.RecordStorage, notifier interfaces.Notifier, m *metrics.Metrics, logger *common.Logger) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Messages == nil {
		opts.Messages = config.DefaultMessages()
	}
	return &Service{
		opts:     opts,
		board:    board,
		records:  records,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Today returns the date key for the current instant.
func (s *Service) Today() string {
	return common.DateKey(s.opts.Now(), s.opts.Location)
}

// StartOfDay snapshots every configured list and stores the result under
// today's key, replacing any record already there. Nothing is written if a
// fetch fails.
func (s *Service) StartOfDay(ctx context.Context) (rec *models.DailyRecord, err error) {
	started := time.Now()
	defer func() { s.observe(metrics.PhaseStartOfDay, started, err) }()

	date := s.Today()
	snap, _, err := s.capture(ctx, s.opts.Lists)
	if err != nil {
		return nil, fmt.Errorf("start of day %s: %w", date, err)
	}

	rec = models.NewCapturedRecord(date, snap, s.opts.Now())
	if err := s.records.PutRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("start of day %s: %w", date, err)
	}
	s.metrics.SetSnapshot(snap)

	s.logger.Info().
		Str("date", date).
		Int("lists", len(snap)).
		Msg("start of day captured")
	return rec, nil
}

// EndOfDay re-reads every list captured this morning, stores the stats and
// posts the leaderboard. With dryRun set the report is built but neither
// stored nor sent.
func (s *Service) EndOfDay(ctx context.Context, dryRun bool) (report *Report, err error) {
	started := time.Now()
	defer func() { s.observe(metrics.PhaseEndOfDay, started, err) }()

	date := s.Today()
	prior, err := s.records.GetRecord(ctx, date)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("end of day %s: %w", date, err)
	}
	if !prior.HasStartOfDay() {
		return nil, fmt.Errorf("end of day %s: %w", date, ErrNotCaptured)
	}

	listIDs := make([]string, 0, len(prior.StartOfDay))
	for id := range prior.StartOfDay {
		listIDs = append(listIDs, id)
	}
	sort.Strings(listIDs)

	end, names, err := s.capture(ctx, listIDs)
	if err != nil {
		return nil, fmt.Errorf("end of day %s: %w", date, err)
	}

	stats := make(map[string]models.ListStats, len(listIDs))
	for _, id := range listIDs {
		stats[id] = ComputeStats(names[id], prior.StartOfDay[id], end[id])
	}

	payload, err := BuildPayload(s.opts.Title, date, stats, s.opts.Messages)
	if err != nil {
		return nil, fmt.Errorf("end of day %s: %w", date, err)
	}
	report = &Report{
		Record:  prior.WithReport(end, stats, s.opts.Now()),
		Payload: payload,
	}

	if dryRun {
		s.logger.Info().Str("date", date).Msg("end of day dry run, nothing stored or sent")
		return report, nil
	}

	if err := s.records.PutRecord(ctx, report.Record); err != nil {
		return nil, fmt.Errorf("end of day %s: %w", date, err)
	}
	s.metrics.SetSnapshot(end)
	s.metrics.SetStats(stats)

	if err := s.notifier.Send(ctx, payload); err != nil {
		return report, fmt.Errorf("end of day %s: %w", date, err)
	}

	s.logger.Info().
		Str("date", date).
		Int("lists", len(stats)).
		Msg("end of day reported")
	return report, nil
}

// Record returns the stored record for date, or today's when date is empty.
func (s *Service) Record(ctx context.Context, date string) (*models.DailyRecord, error) {
	if date == "" {
		date = s.Today()
	}
	if _, err := common.ParseDateKey(date); err != nil {
		return nil, err
	}
	return s.records.GetRecord(ctx, date)
}

// capture fetches every list in ids, returning cards and display names by ID.
func (s *Service) capture(ctx context.Context, ids []string) (models.Snapshot, map[string]string, error) {
	lists := make([]*models.BoardList, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			list, err := s.board.GetList(gctx, id)
			if err != nil {
				return fmt.Errorf("fetch list %s: %w", id, err)
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	snap := make(models.Snapshot, len(ids))
	names := make(map[string]string, len(ids))
	for i, id := range ids {
		cards := lists[i].Cards
		if cards == nil {
			cards = models.CardSet{}
		}
		snap[id] = cards
		names[id] = lists[i].Name
	}
	return snap, names, nil
}

func (s *Service) observe(phase string, started time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNotCaptured):
		result = "skipped"
	case err != nil:
		result = "error"
	}
	s.metrics.ObserveRun(phase, result, started)
}
