package race

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/board-race/internal/common"
	"github.com/bobmcallan/board-race/internal/interfaces"
	"github.com/bobmcallan/board-race/internal/models"
)

var testNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type fakeBoard struct {
	mu    sync.Mutex
	lists map[string]*models.BoardList
	fail  map[string]error
	calls int
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{lists: map[string]*models.BoardList{}, fail: map[string]error{}}
}

func (b *fakeBoard) set(id, name string, cards ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists[id] = &models.BoardList{ID: id, Name: name, Cards: append(models.CardSet{}, cards...)}
}

func (b *fakeBoard) GetList(_ context.Context, listID string) (*models.BoardList, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if err := b.fail[listID]; err != nil {
		return nil, err
	}
	list, ok := b.lists[listID]
	if !ok {
		return nil, fmt.Errorf("list not found: %s", listID)
	}
	cp := *list
	cp.Cards = append(models.CardSet{}, list.Cards...)
	return &cp, nil
}

type memRecords struct {
	mu      sync.Mutex
	records map[string]*models.DailyRecord
	puts    int
	getErr  error
}

func newMemRecords() *memRecords {
	return &memRecords{records: map[string]*models.DailyRecord{}}
}

func (m *memRecords) GetRecord(_ context.Context, date string) (*models.DailyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[date]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", date, interfaces.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *memRecords) PutRecord(_ context.Context, rec *models.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := rec.Validate(); err != nil {
		return err
	}
	cp := *rec
	m.records[rec.Date] = &cp
	m.puts++
	return nil
}

type fakeNotifier struct {
	sent []*models.Payload
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, p *models.Payload) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, p)
	return nil
}

var errBoardDown = errors.New("board down")

func newTestService(board *fakeBoard, records *memRecords, notifier *fakeNotifier, lists ...string) *Service {
	return NewService(Options{
		Lists:    lists,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	}, board, records, notifier, nil, common.NewSilentLogger())
}
