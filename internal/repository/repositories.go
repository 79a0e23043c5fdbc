package repository

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/talentvote/backend/internal/model"
)

type Repositories interface {
	Entrant() EntrantRepository
	Ledger() LedgerRepository
	Counter() CounterRepository
	User() UserRepository
}

type repositories struct {
	entrantRepository EntrantRepository
	ledgerRepository  LedgerRepository
	counterRepository CounterRepository
	userRepository    UserRepository
}

// NewRepositories migrates the durable schema and wires every store. A nil
// redis client falls back to the in-memory counter store so the service can
// run without Redis, at the cost of counters not surviving a restart.
func NewRepositories(db *gorm.DB, rdb *redis.Client) Repositories {
	err := db.AutoMigrate(&model.User{}, &model.Entrant{}, &model.VoteRecord{})
	if err != nil {
		logrus.Panic(err)
	}

	var counterRepository CounterRepository
	if rdb != nil {
		counterRepository = newCounterRepository(rdb)
	} else {
		logrus.Warn("Using in-memory counter store (Redis not available)")
		counterRepository = NewMemoryCounterRepository()
	}

	return &repositories{
		entrantRepository: newEntrantRepository(db),
		ledgerRepository:  newLedgerRepository(db),
		counterRepository: counterRepository,
		userRepository:    newUserRepository(db),
	}
}

func (r repositories) Entrant() EntrantRepository {
	return r.entrantRepository
}

func (r repositories) Ledger() LedgerRepository {
	return r.ledgerRepository
}

func (r repositories) Counter() CounterRepository {
	return r.counterRepository
}

func (r repositories) User() UserRepository {
	return r.userRepository
}
