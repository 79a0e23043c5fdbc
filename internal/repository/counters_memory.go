package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/talentvote/backend/internal/dto"
)

// MemoryCounterRepository is the in-memory counter variant, used in tests and
// as the fallback when Redis is not configured.
type MemoryCounterRepository struct {
	mu          sync.Mutex
	totals      map[string]int64
	systemTotal int64

	// FailIncrements makes Increment surface a storage fault, for exercising
	// the documented post-commit counter drift path.
	FailIncrements bool
}

func NewMemoryCounterRepository() *MemoryCounterRepository {
	return &MemoryCounterRepository{
		totals: make(map[string]int64),
	}
}

func (m *MemoryCounterRepository) Increment(ctx context.Context, entrantID string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailIncrements {
		return 0, 0, fmt.Errorf("%w: counter store unavailable", dto.ErrInternalFailure)
	}

	m.totals[entrantID]++
	m.systemTotal++
	return m.totals[entrantID], m.systemTotal, nil
}

func (m *MemoryCounterRepository) TotalFor(ctx context.Context, entrantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.totals[entrantID], nil
}

func (m *MemoryCounterRepository) SystemTotal(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.systemTotal, nil
}

func (m *MemoryCounterRepository) AllTotals(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[string]int64, len(m.totals))
	for id, total := range m.totals {
		totals[id] = total
	}
	return totals, nil
}

func (m *MemoryCounterRepository) SetTotal(ctx context.Context, entrantID string, total int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals[entrantID] = total
	return nil
}

func (m *MemoryCounterRepository) SetSystemTotal(ctx context.Context, total int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.systemTotal = total
	return nil
}

func (m *MemoryCounterRepository) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals = make(map[string]int64)
	m.systemTotal = 0
	return nil
}
