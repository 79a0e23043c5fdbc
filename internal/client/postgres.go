package client

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talentvote/backend/internal/dto"
)

// NewPostgresClient opens the durable store. TranslateError is required: the
// ledger relies on gorm.ErrDuplicatedKey to distinguish a duplicate vote from
// an infrastructure fault.
func NewPostgresClient(cfg dto.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return db, nil
}
