package entity

import (
	"time"

	"github.com/google/uuid"
)

// Citation is one extracted source reference stored with a stage message.
type Citation struct {
	Kind   string `json:"type"`
	Source string `json:"source"`
}

// StageMessage is one persisted unit of a conversation: the user's message
// or a completed generation stage. Created once, never mutated; removed only
// by cascading session deletion.
type StageMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Type          string // "user", "research_ai", "guidance_ai"
	Content       string
	Citations     []Citation
	Confidence    *float64
	ProcessingMs  int64
	Degraded      bool
	CreatedAt     time.Time
}
