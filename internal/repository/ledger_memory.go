package repository

import (
	"fmt"
	"sync"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
)

// MemoryLedgerRepository is the in-memory ledger variant used in tests. The
// insert-if-absent check runs under one mutex, mirroring the atomicity the
// durable store gets from its unique index.
type MemoryLedgerRepository struct {
	mu      sync.Mutex
	records []model.VoteRecord
	pairs   map[string]struct{}
	nextID  uint

	// FailInserts makes every TryInsert surface a storage fault, for
	// exercising the admission engine's failure paths.
	FailInserts bool
}

func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{
		pairs:  make(map[string]struct{}),
		nextID: 1,
	}
}

func pairKey(voterID, entrantID string) string {
	return voterID + "\x00" + entrantID
}

func (m *MemoryLedgerRepository) TryInsert(record model.VoteRecord) (model.VoteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailInserts {
		return model.VoteRecord{}, fmt.Errorf("%w: ledger store unavailable", dto.ErrInternalFailure)
	}

	key := pairKey(record.VoterID, record.EntrantID)
	if _, exists := m.pairs[key]; exists {
		return model.VoteRecord{}, fmt.Errorf("%w: voter %s already voted for entrant %s",
			dto.ErrDuplicateVote, record.VoterID, record.EntrantID)
	}

	record.ID = m.nextID
	m.nextID++
	m.pairs[key] = struct{}{}
	m.records = append(m.records, record)
	return record, nil
}

func (m *MemoryLedgerRepository) HasVoted(voterID, entrantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.pairs[pairKey(voterID, entrantID)]
	return exists, nil
}

func (m *MemoryLedgerRepository) CountFor(entrantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, record := range m.records {
		if record.EntrantID == entrantID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryLedgerRepository) CountByEntrant() (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[string]int64)
	for _, record := range m.records {
		totals[record.EntrantID]++
	}
	return totals, nil
}

func (m *MemoryLedgerRepository) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	m.pairs = make(map[string]struct{})
	m.nextID = 1
	return nil
}
