package model

import (
	"time"
)

type Entrant struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `gorm:"not null"`
	Category  string `gorm:"not null"`
	Photo     string
}
