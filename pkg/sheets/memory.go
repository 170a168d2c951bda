package sheets

import (
	"context"
	"sync"
)

// Memory is an in-process Workbook.
type Memory struct {
	mu     sync.Mutex
	sheets map[string]*memorySheet
	closed bool
}

// NewMemory returns an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string]*memorySheet)}
}

// Worksheet implements Workbook.
func (m *Memory) Worksheet(_ context.Context, name string, header []string) (Store, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	sheet, ok := m.sheets[name]
	if !ok {
		sheet = &memorySheet{}
		m.sheets[name] = sheet
	}
	sheet.ensureHeader(header)
	return sheet, nil
}

// Close implements Workbook.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type memorySheet struct {
	mu   sync.RWMutex
	grid [][]string
}

func (s *memorySheet) ensureHeader(header []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.grid) == 0 && len(header) > 0 {
		s.grid = append(s.grid, append([]string(nil), header...))
	}
}

func (s *memorySheet) Header(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return headerOf(s.grid), nil
}

func (s *memorySheet) AppendRow(ctx context.Context, row []any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = append(s.grid, cellsOf(row))
	return nil
}

func (s *memorySheet) ReadAllRecords(ctx context.Context) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recordsFromGrid(s.grid), nil
}
