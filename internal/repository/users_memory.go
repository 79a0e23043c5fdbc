package repository

import (
	"fmt"
	"sync"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
)

// MemoryUserRepository is the in-memory user store variant used in tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]model.User),
	}
}

func (m *MemoryUserRepository) GetByUsername(username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.users[username]
	if !ok {
		return model.User{}, fmt.Errorf("%w: user %s", dto.ErrNotFound, username)
	}
	return record, nil
}

func (m *MemoryUserRepository) Upsert(record model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[record.Username] = record
	return record, nil
}
