package jobs

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/models"
	"github.com/bobmcallan/board-race/internal/race"
)

type fakeRunner struct {
	inflight    atomic.Int32
	maxInflight atomic.Int32
	starts      atomic.Int32
	ends        atomic.Int32
	endErr      error
	sawDeadline atomic.Bool
}

func (f *fakeRunner) enter(ctx context.Context) func() {
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline.Store(true)
	}
	n := f.inflight.Add(1)
	for {
		m := f.maxInflight.Load()
		if n <= m || f.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return func() { f.inflight.Add(-1) }
}

func (f *fakeRunner) StartOfDay(ctx context.Context) (*models.DailyRecord, error) {
	defer f.enter(ctx)()
	f.starts.Add(1)
	return &models.DailyRecord{}, nil
}

func (f *fakeRunner) EndOfDay(ctx context.Context, dryRun bool) (*race.Report, error) {
	defer f.enter(ctx)()
	f.ends.Add(1)
	if f.endErr != nil {
		return nil, f.endErr
	}
	return &race.Report{}, nil
}

func defaultSchedule() config.ScheduleConfig {
	return config.NewDefaultConfig().Schedule
}

func TestNew_RejectsBadSpec(t *testing.T) {
	cfg := defaultSchedule()
	cfg.StartOfDay = "at nine"
	if _, err := New(cfg, time.UTC, &fakeRunner{}, common.NewSilentLogger()); err == nil {
		t.Fatal("expected error for bad start_of_day spec")
	}

	cfg = defaultSchedule()
	cfg.EndOfDay = "* * *"
	_, err := New(cfg, time.UTC, &fakeRunner{}, common.NewSilentLogger())
	if err == nil || !strings.Contains(err.Error(), "end_of_day") {
		t.Fatalf("expected end_of_day error, got %v", err)
	}
}

func TestNext_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s, err := New(defaultSchedule(), loc, &fakeRunner{}, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Wednesday 2026-10-14 06:00 UTC is 08:00 in Berlin.
	from := time.Date(2026, 10, 14, 6, 0, 0, 0, time.UTC)
	start, end := s.Next(from)

	wantStart := time.Date(2026, 10, 14, 9, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 10, 14, 17, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, end)
	}
}

func TestNext_SkipsWeekend(t *testing.T) {
	s, err := New(defaultSchedule(), time.UTC, &fakeRunner{}, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Friday evening; next start is Monday.
	from := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	start, _ := s.Next(from)
	if want := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("expected %v, got %v", want, start)
	}
}

func TestRun_SerializesPhases(t *testing.T) {
	runner := &fakeRunner{}
	s, err := New(defaultSchedule(), time.UTC, runner, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); s.run("start_of_day", s.startOfDay) }()
		go func() { defer wg.Done(); s.run("end_of_day", s.endOfDay) }()
	}
	wg.Wait()

	if got := runner.maxInflight.Load(); got != 1 {
		t.Errorf("expected runs to be serialized, saw %d at once", got)
	}
	if runner.starts.Load() != 4 || runner.ends.Load() != 4 {
		t.Errorf("expected 4 runs of each phase, got %d/%d", runner.starts.Load(), runner.ends.Load())
	}
	if !runner.sawDeadline.Load() {
		t.Error("expected runs to carry a deadline")
	}
}

func TestRun_NotCapturedIsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("debug", &buf)
	runner := &fakeRunner{endErr: race.ErrNotCaptured}
	s, err := New(defaultSchedule(), time.UTC, runner, logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.run("end_of_day", s.endOfDay)

	if !strings.Contains(buf.String(), "nothing to report") {
		t.Errorf("expected warning about missing capture, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "run failed") {
		t.Errorf("missing capture must not be logged as a failure:\n%s", buf.String())
	}
}

func TestStartStop(t *testing.T) {
	s, err := New(defaultSchedule(), time.UTC, &fakeRunner{}, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.Start()
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestFormatKV(t *testing.T) {
	got := formatKV([]interface{}{"entry", 1, "next", "soon", "dangling"})
	if got != "entry=1 next=soon" {
		t.Errorf("unexpected %q", got)
	}
}
