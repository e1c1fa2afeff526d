package testutil

import (
	"context"
	"sync"
	"time"

	"reportbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSheetRepository is a mock for SheetRepository
type MockSheetRepository struct {
	mock.Mock
}

func (m *MockSheetRepository) ReadCell(ctx context.Context, row, column int) (string, error) {
	args := m.Called(ctx, row, column)
	return args.String(0), args.Error(1)
}

func (m *MockSheetRepository) BatchWrite(ctx context.Context, updates []domain.CellUpdate) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

// MockReportArchive is a mock for ReportArchive
type MockReportArchive struct {
	mock.Mock
}

func (m *MockReportArchive) SaveReport(ctx context.Context, report *domain.Report) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportArchive) MarkDelivered(ctx context.Context, id int64, column int) error {
	args := m.Called(ctx, id, column)
	return args.Error(0)
}

func (m *MockReportArchive) MarkFailed(ctx context.Context, id int64, cause string) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

func (m *MockReportArchive) ListUndelivered(ctx context.Context, maxAttempts int, staleAfter time.Duration, limit int) ([]domain.Report, error) {
	args := m.Called(ctx, maxAttempts, staleAfter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportArchive) CleanOldReports(ctx context.Context, days int) error {
	args := m.Called(ctx, days)
	return args.Error(0)
}

// MockNotifier is a mock for service.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

// FakeSheet is an in-memory SheetRepository keyed by row and column
type FakeSheet struct {
	mu      sync.Mutex
	cells   map[[2]int]interface{}
	Batches [][]domain.CellUpdate
}

// NewFakeSheet creates an empty sheet
func NewFakeSheet() *FakeSheet {
	return &FakeSheet{cells: make(map[[2]int]interface{})}
}

// Set fills a cell
func (f *FakeSheet) Set(row, column int, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells[[2]int{row, column}] = value
}

// Get returns a cell's value, nil when empty
func (f *FakeSheet) Get(row, column int) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cells[[2]int{row, column}]
}

func (f *FakeSheet) ReadCell(_ context.Context, row, column int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.cells[[2]int{row, column}]; ok {
		return toString(v), nil
	}
	return "", nil
}

func (f *FakeSheet) BatchWrite(_ context.Context, updates []domain.CellUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range updates {
		f.cells[[2]int{u.Row, u.Column}] = u.Value
	}
	f.Batches = append(f.Batches, updates)
	return nil
}
