package entity

import (
	"time"

	"github.com/google/uuid"
)

// Jurisdiction scopes a session's questions to state/local law.
type Jurisdiction struct {
	State    string `json:"state"`
	Locality string `json:"locality,omitempty"`
}

type ChatSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Jurisdiction *Jurisdiction
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
