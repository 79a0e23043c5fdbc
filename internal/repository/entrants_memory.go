package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
)

// MemoryEntrantRepository is the dependency-free catalog variant used in
// tests. It preserves insertion order, matching the durable store's listing
// order.
type MemoryEntrantRepository struct {
	mu       sync.RWMutex
	entrants []model.Entrant
	byID     map[string]model.Entrant
}

func NewMemoryEntrantRepository() *MemoryEntrantRepository {
	return &MemoryEntrantRepository{
		byID: make(map[string]model.Entrant),
	}
}

func (m *MemoryEntrantRepository) Add(record model.Entrant) (model.Entrant, error) {
	if record.Name == "" || record.Category == "" {
		return model.Entrant{}, fmt.Errorf("%w: entrant name and category are required", dto.ErrValidation)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entrants = append(m.entrants, record)
	m.byID[record.ID] = record
	return record, nil
}

func (m *MemoryEntrantRepository) All() ([]model.Entrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Entrant, len(m.entrants))
	copy(out, m.entrants)
	return out, nil
}

func (m *MemoryEntrantRepository) ByID(id string) (model.Entrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return model.Entrant{}, fmt.Errorf("%w: entrant %s", dto.ErrNotFound, id)
	}
	return record, nil
}

func (m *MemoryEntrantRepository) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entrants = nil
	m.byID = make(map[string]model.Entrant)
	return nil
}
