package integrations

import (
	"context"
	"sync"

	"github.com/obelisk/budgetdb/extractor/common"
)

// MemoryStore keeps lines in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	lines []common.BudgetLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return nil
}

func (s *MemoryStore) SaveAll(ctx context.Context, lines []common.BudgetLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, lines...)
	return nil
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]common.BudgetLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.BudgetLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
