package model

import "time"

// VoteRecord is the durable ledger entry for one accepted vote. The composite
// unique index is the sole integrity constraint of the system: the database,
// not the caller, rejects a second vote for the same (voter, entrant) pair.
type VoteRecord struct {
	ID        uint   `gorm:"primarykey"`
	VoterID   string `gorm:"not null;uniqueIndex:idx_votes_voter_entrant"`
	EntrantID string `gorm:"not null;uniqueIndex:idx_votes_voter_entrant"`
	CreatedAt time.Time
}
