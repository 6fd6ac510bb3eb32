package entity

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	Id           uuid.UUID
	Name         string
	Code         string
	State        string
	Jurisdiction string
	Policies     map[string]interface{}
	CreatedAt    time.Time
}
