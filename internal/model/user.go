package model

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RolePublic Role = "public"
)

type User struct {
	Username  string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Role      Role `gorm:"not null"`
}
