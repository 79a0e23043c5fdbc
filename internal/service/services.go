package service

import (
	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/repository"
)

type Services interface {
	Vote() VoteService
	Admin() AdminService
	Auth() AuthService
	Broker() VoteBroker
}

type services struct {
	voteService  VoteService
	adminService AdminService
	authService  AuthService
	voteBroker   VoteBroker
}

func NewServices(repositories repository.Repositories, config dto.Config) Services {
	voteBroker := newVoteBroker(config)
	voteService := newVoteService(repositories.Entrant(), repositories.Ledger(), repositories.Counter(), voteBroker)
	adminService := newAdminService(repositories.Entrant(), repositories.Ledger(), repositories.Counter())
	return &services{
		voteService:  voteService,
		adminService: adminService,
		authService:  newAuthService(repositories.User(), config),
		voteBroker:   voteBroker,
	}
}

func (s services) Vote() VoteService {
	return s.voteService
}

func (s services) Admin() AdminService {
	return s.adminService
}

func (s services) Auth() AuthService {
	return s.authService
}

func (s services) Broker() VoteBroker {
	return s.voteBroker
}
