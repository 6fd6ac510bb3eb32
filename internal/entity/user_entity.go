package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         string // "officer", "sergeant", "lieutenant", ...
	BadgeNumber  string
	DepartmentId *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
