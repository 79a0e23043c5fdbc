package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
	"github.com/talentvote/backend/internal/repository"
)

type AdminServiceSuite struct {
	suite.Suite
	entrants *repository.MemoryEntrantRepository
	ledger   *repository.MemoryLedgerRepository
	counters *repository.MemoryCounterRepository
	admin    AdminService
	votes    VoteService
	ctx      context.Context
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.entrants = repository.NewMemoryEntrantRepository()
	s.ledger = repository.NewMemoryLedgerRepository()
	s.counters = repository.NewMemoryCounterRepository()
	s.admin = newAdminService(s.entrants, s.ledger, s.counters)
	s.votes = newVoteService(s.entrants, s.ledger, s.counters, NewInMemoryVoteBroker())
	s.ctx = context.Background()
}

func (s *AdminServiceSuite) addEntrant(name, category string) model.Entrant {
	entrant, err := s.entrants.Add(model.Entrant{Name: name, Category: category})
	s.Require().NoError(err)
	return entrant
}

func (s *AdminServiceSuite) castVote(voterID, entrantID string) {
	result, err := s.votes.CastVote(s.ctx, voterID, entrantID)
	s.Require().NoError(err)
	s.Require().Equal(VoteAccepted, result.Status)
}

func (s *AdminServiceSuite) TestReinitialize() {
	// Pre-existing state must be wiped.
	old := s.addEntrant("Old", "Dance")
	s.castVote("u1", old.ID)

	descriptors := []dto.EntrantDescriptor{
		{Name: "Ana", Category: "Dance", Photo: "ana.png"},
		{Name: "Luis", Category: "Song"},
		{Name: "NoCategory"},
		{Category: "NoName"},
	}

	count, err := s.admin.Reinitialize(s.ctx, descriptors)
	s.Require().NoError(err)
	s.Equal(2, count)

	views, err := s.admin.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	for _, view := range views {
		s.Zero(view.TotalVotes)
	}
	s.Equal("Ana", views[0].Name)
	s.Equal("ana.png", views[0].Photo)
	s.Equal(dto.DefaultPhoto, views[1].Photo)

	stats, err := s.admin.SystemStats(s.ctx)
	s.Require().NoError(err)
	s.Zero(stats.TotalVotesSystem)

	voted, err := s.ledger.HasVoted("u1", old.ID)
	s.Require().NoError(err)
	s.False(voted)
}

func (s *AdminServiceSuite) TestAddEntrant() {
	entrant, err := s.admin.AddEntrant(s.ctx, "Mia", "Magic", "")
	s.Require().NoError(err)
	s.NotEmpty(entrant.ID)
	s.Equal(dto.DefaultPhoto, entrant.Photo)

	total, err := s.counters.TotalFor(s.ctx, entrant.ID)
	s.Require().NoError(err)
	s.Zero(total)

	_, err = s.admin.AddEntrant(s.ctx, "", "Magic", "")
	s.Require().ErrorIs(err, dto.ErrValidation)
}

func (s *AdminServiceSuite) TestTop3OrderingAndTies() {
	a := s.addEntrant("A", "Dance")
	b := s.addEntrant("B", "Song")
	c := s.addEntrant("C", "Dance")
	s.addEntrant("D", "Song")

	s.castVote("u1", b.ID)
	s.castVote("u2", b.ID)
	s.castVote("u1", a.ID)
	s.castVote("u1", c.ID)

	top, err := s.admin.Top3(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal("B", top[0].Name)
	// A and C tie with one vote each; catalog order breaks the tie.
	s.Equal("A", top[1].Name)
	s.Equal("C", top[2].Name)
}

func (s *AdminServiceSuite) TestZeroVoteEntrants() {
	a := s.addEntrant("A", "Dance")
	s.addEntrant("B", "Song")

	s.castVote("u1", a.ID)

	zeros, err := s.admin.ZeroVoteEntrants(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(zeros, 1)
	s.Equal("B", zeros[0].Name)
}

// Scenario from the product brief: two entrants, one repeat voter.
func (s *AdminServiceSuite) TestTwoEntrantScenario() {
	a := s.addEntrant("A", "Dance")
	b := s.addEntrant("B", "Song")

	result, err := s.votes.CastVote(s.ctx, "u1", a.ID)
	s.Require().NoError(err)
	s.Equal(VoteAccepted, result.Status)
	s.Equal(int64(1), result.NewEntrantTotal)
	s.Equal(int64(1), result.SystemTotal)

	result, err = s.votes.CastVote(s.ctx, "u1", a.ID)
	s.Require().NoError(err)
	s.Equal(VoteRejected, result.Status)
	s.Equal(ReasonDuplicateVote, result.Reason)

	result, err = s.votes.CastVote(s.ctx, "u1", b.ID)
	s.Require().NoError(err)
	s.Equal(VoteAccepted, result.Status)
	s.Equal(int64(1), result.NewEntrantTotal)
	s.Equal(int64(2), result.SystemTotal)

	top, err := s.admin.Top3(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal("A", top[0].Name)
	s.Equal("B", top[1].Name)
	s.Equal(int64(1), top[0].TotalVotes)
	s.Equal(int64(1), top[1].TotalVotes)

	byCategory, err := s.admin.VotesByCategory(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int64{"Dance": 1, "Song": 1}, byCategory)
}

func (s *AdminServiceSuite) TestSystemStats() {
	a := s.addEntrant("A", "Dance")
	b := s.addEntrant("B", "Song")
	s.castVote("u1", a.ID)
	s.castVote("u2", a.ID)
	s.castVote("u1", b.ID)

	stats, err := s.admin.SystemStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), stats.TotalVotesSystem)
	s.Equal(map[string]int64{"Dance": 2, "Song": 1}, stats.VotesByCategory)
}

// Reconcile rewrites counters from the ledger after drift.
func (s *AdminServiceSuite) TestReconcileRepairsDrift() {
	a := s.addEntrant("A", "Dance")
	s.castVote("u1", a.ID)

	// Simulate the documented post-commit divergence: the next vote lands in
	// the ledger but not in the counters.
	s.counters.FailIncrements = true
	result, err := s.votes.CastVote(s.ctx, "u2", a.ID)
	s.Require().NoError(err)
	s.Require().Equal(VoteAccepted, result.Status)
	s.counters.FailIncrements = false

	total, err := s.counters.TotalFor(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), total)

	s.Require().NoError(s.admin.Reconcile(s.ctx))

	total, err = s.counters.TotalFor(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	systemTotal, err := s.counters.SystemTotal(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), systemTotal)
}
