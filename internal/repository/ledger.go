package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
)

// LedgerRepository is the durable, uniquely-constrained record of accepted
// votes. The unique index on (voter_id, entrant_id) is the authoritative
// duplicate gate; HasVoted is advisory only and permits a read-then-write
// race if used as the sole check.
type LedgerRepository interface {
	TryInsert(record model.VoteRecord) (model.VoteRecord, error)
	HasVoted(voterID, entrantID string) (bool, error)
	CountFor(entrantID string) (int64, error)
	CountByEntrant() (map[string]int64, error)
	ClearAll() error
}

type ledger struct {
	db *gorm.DB
}

func newLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledger{
		db: db,
	}
}

// TryInsert appends one vote, letting the database enforce uniqueness.
// A constraint hit surfaces as dto.ErrDuplicateVote, anything else as
// dto.ErrInternalFailure.
func (l *ledger) TryInsert(record model.VoteRecord) (model.VoteRecord, error) {
	result := l.db.Create(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.VoteRecord{}, fmt.Errorf("%w: voter %s already voted for entrant %s",
				dto.ErrDuplicateVote, record.VoterID, record.EntrantID)
		}
		return model.VoteRecord{}, fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}

	return record, nil
}

func (l *ledger) HasVoted(voterID, entrantID string) (bool, error) {
	var count int64
	result := l.db.Model(&model.VoteRecord{}).
		Where("voter_id = ? AND entrant_id = ?", voterID, entrantID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}

	return count > 0, nil
}

func (l *ledger) CountFor(entrantID string) (int64, error) {
	var count int64
	result := l.db.Model(&model.VoteRecord{}).Where("entrant_id = ?", entrantID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}

	return count, nil
}

// CountByEntrant recomputes per-entrant totals from the ledger. Reconciliation
// uses this as the source of truth when the counter store has drifted.
func (l *ledger) CountByEntrant() (map[string]int64, error) {
	type row struct {
		EntrantID string
		Total     int64
	}

	var groups []row
	result := l.db.Model(&model.VoteRecord{}).
		Select("entrant_id, count(*) as total").
		Group("entrant_id").
		Scan(&groups)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}

	totals := make(map[string]int64, len(groups))
	for _, g := range groups {
		totals[g.EntrantID] = g.Total
	}
	return totals, nil
}

func (l *ledger) ClearAll() error {
	result := l.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.VoteRecord{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}
	return nil
}
