package client

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/talentvote/backend/internal/dto"
)

// Clients holds the process-scoped storage handles. They are built once at
// startup and passed explicitly to the layers that need them.
type Clients interface {
	DB() *gorm.DB
	Redis() *redis.Client

	Close()
}

type clients struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewClients(cfg dto.Config) Clients {
	db, err := NewPostgresClient(cfg)
	if err != nil {
		logrus.Panic(err)
	}

	rdb, err := NewRedisClient(cfg)
	if err != nil {
		logrus.Errorf("Failed to connect to Redis: %v", err)
		rdb = nil
	}

	return &clients{
		db:    db,
		redis: rdb,
	}
}

func (c clients) DB() *gorm.DB {
	return c.db
}

func (c clients) Redis() *redis.Client {
	return c.redis
}

func (c clients) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logrus.Errorf("Error closing Redis client: %v", err)
		}
	}
	if sqlDB, err := c.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Error closing database connection: %v", err)
		}
	}
}
