package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/metrics"
	"github.com/talentvote/backend/internal/model"
	"github.com/talentvote/backend/internal/repository"
)

type VoteStatus int

const (
	VoteAccepted VoteStatus = iota
	VoteRejected
	VoteFailed
)

type VoteReason string

const (
	ReasonDuplicateVote  VoteReason = "duplicate_vote"
	ReasonUnknownEntrant VoteReason = "unknown_entrant"
	ReasonValidation     VoteReason = "validation"
	ReasonStorageError   VoteReason = "storage_error"
)

// VoteResult is the outcome of one admission attempt. Totals are only
// meaningful when Status is VoteAccepted.
type VoteResult struct {
	Status          VoteStatus
	Reason          VoteReason
	NewEntrantTotal int64
	SystemTotal     int64
}

type VoteService interface {
	CastVote(ctx context.Context, voterID, entrantID string) (VoteResult, error)
	PublicEntrants() ([]dto.EntrantPublicView, error)
}

type voteService struct {
	entrantRepository repository.EntrantRepository
	ledgerRepository  repository.LedgerRepository
	counterRepository repository.CounterRepository
	broker            VoteBroker
}

func newVoteService(
	entrantRepository repository.EntrantRepository,
	ledgerRepository repository.LedgerRepository,
	counterRepository repository.CounterRepository,
	broker VoteBroker,
) VoteService {
	return &voteService{
		entrantRepository: entrantRepository,
		ledgerRepository:  ledgerRepository,
		counterRepository: counterRepository,
		broker:            broker,
	}
}

// CastVote admits one vote: catalog check, ledger insert, counter increment,
// then an asynchronous broadcast. The ledger is the source of truth; counters
// are incremented only after the ledger commit succeeds. A counter failure
// after commit leaves the vote accepted and flags the drift for manual
// reconciliation instead of retrying.
func (v *voteService) CastVote(ctx context.Context, voterID, entrantID string) (VoteResult, error) {
	if voterID == "" || entrantID == "" {
		return VoteResult{Status: VoteRejected, Reason: ReasonValidation},
			fmt.Errorf("%w: voter and entrant ids are required", dto.ErrValidation)
	}

	if _, err := v.entrantRepository.ByID(entrantID); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			metrics.VotesUnknownEntrant.Inc()
			return VoteResult{Status: VoteRejected, Reason: ReasonUnknownEntrant}, nil
		}
		metrics.VotesFailed.Inc()
		return VoteResult{Status: VoteFailed, Reason: ReasonStorageError}, err
	}

	// Advisory fast path only. The insert below is the authoritative gate;
	// two concurrent attempts can both pass this check.
	if voted, err := v.ledgerRepository.HasVoted(voterID, entrantID); err == nil && voted {
		metrics.VotesDuplicate.Inc()
		return VoteResult{Status: VoteRejected, Reason: ReasonDuplicateVote}, nil
	}

	record := model.VoteRecord{
		VoterID:   voterID,
		EntrantID: entrantID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := v.ledgerRepository.TryInsert(record); err != nil {
		if errors.Is(err, dto.ErrDuplicateVote) {
			metrics.VotesDuplicate.Inc()
			return VoteResult{Status: VoteRejected, Reason: ReasonDuplicateVote}, nil
		}
		metrics.VotesFailed.Inc()
		logrus.Errorf("Ledger insert failed for voter %s entrant %s: %v", voterID, entrantID, err)
		return VoteResult{Status: VoteFailed, Reason: ReasonStorageError}, err
	}

	entrantTotal, systemTotal, err := v.counterRepository.Increment(ctx, entrantID)
	if err != nil {
		// The vote is durable; the counter cache now lags the ledger by one.
		// Reconciliation repairs this, not an automatic retry.
		metrics.CounterDrift.Inc()
		logrus.Errorf("Counter increment failed after ledger commit for entrant %s; counters diverge from ledger: %v", entrantID, err)
		metrics.VotesAccepted.Inc()
		return VoteResult{Status: VoteAccepted}, nil
	}

	metrics.VotesAccepted.Inc()
	logrus.Infof("Voter %s voted for entrant %s: total=%d system=%d", voterID, entrantID, entrantTotal, systemTotal)

	update := dto.VoteUpdate{
		Type:          dto.VoteUpdateType,
		EntrantID:     entrantID,
		NewTotalVotes: entrantTotal,
		SystemTotal:   systemTotal,
	}
	go v.broker.Publish(update)

	return VoteResult{
		Status:          VoteAccepted,
		NewEntrantTotal: entrantTotal,
		SystemTotal:     systemTotal,
	}, nil
}

func (v *voteService) PublicEntrants() ([]dto.EntrantPublicView, error) {
	entrants, err := v.entrantRepository.All()
	if err != nil {
		return nil, err
	}

	views := make([]dto.EntrantPublicView, 0, len(entrants))
	for _, entrant := range entrants {
		views = append(views, dto.EntrantPublicView{
			ID:       entrant.ID,
			Name:     entrant.Name,
			Category: entrant.Category,
			Photo:    entrant.Photo,
		})
	}
	return views, nil
}
