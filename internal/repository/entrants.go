package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
)

type EntrantRepository interface {
	Add(entrant model.Entrant) (model.Entrant, error)
	All() ([]model.Entrant, error)
	ByID(id string) (model.Entrant, error)
	ClearAll() error
}

type entrant struct {
	db *gorm.DB
}

func newEntrantRepository(db *gorm.DB) EntrantRepository {
	return &entrant{
		db: db,
	}
}

func (e *entrant) Add(record model.Entrant) (model.Entrant, error) {
	if record.Name == "" || record.Category == "" {
		return model.Entrant{}, fmt.Errorf("%w: entrant name and category are required", dto.ErrValidation)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	result := e.db.Create(&record)
	if result.Error != nil {
		return model.Entrant{}, fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}

	return record, nil
}

// All lists the catalog in insertion order. Rows that fail to scan or that
// predate the current schema are skipped with a warning instead of aborting
// the whole listing.
func (e *entrant) All() ([]model.Entrant, error) {
	rows, err := e.db.Model(&model.Entrant{}).Order("created_at, id").Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	defer rows.Close()

	var entrants []model.Entrant
	for rows.Next() {
		var record model.Entrant
		if err := e.db.ScanRows(rows, &record); err != nil {
			logrus.Warnf("Skipping unreadable entrant row: %v", err)
			continue
		}
		if record.Name == "" || record.Category == "" {
			logrus.Warnf("Skipping corrupt entrant record %s: missing name or category", record.ID)
			continue
		}
		entrants = append(entrants, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	return entrants, nil
}

func (e *entrant) ByID(id string) (model.Entrant, error) {
	var record model.Entrant
	result := e.db.First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return model.Entrant{}, fmt.Errorf("%w: entrant %s", dto.ErrNotFound, id)
		}
		return model.Entrant{}, fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}

	return record, nil
}

func (e *entrant) ClearAll() error {
	result := e.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Entrant{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, result.Error)
	}
	return nil
}
