package dto

import (
	"time"

	"github.com/google/uuid"
)

type JurisdictionDTO struct {
	State    string `json:"state" validate:"required"`
	Locality string `json:"locality,omitempty"`
}

type CreateSessionRequest struct {
	Title        string           `json:"title"`
	Jurisdiction *JurisdictionDTO `json:"jurisdiction,omitempty"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Jurisdiction *JurisdictionDTO `json:"jurisdiction,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    *time.Time       `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id           uuid.UUID     `json:"id"`
	Type         string        `json:"type"`
	Content      string        `json:"content"`
	Citations    []CitationDTO `json:"citations,omitempty"`
	Confidence   *float64      `json:"confidence,omitempty"`
	ProcessingMs int64         `json:"processing_ms,omitempty"`
	Degraded     bool          `json:"degraded,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type CitationDTO struct {
	Type   string `json:"type"`
	Source string `json:"source"`
}

type SendMessageRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Message       string    `json:"message" validate:"required"`
	Urgent        bool      `json:"urgent,omitempty"`
	Stage         string    `json:"stage,omitempty" validate:"omitempty,oneof=research guidance both"`
}

type StageResultDTO struct {
	Id           uuid.UUID     `json:"id"`
	Type         string        `json:"type"`
	Content      string        `json:"content"`
	Citations    []CitationDTO `json:"citations"`
	Confidence   float64       `json:"confidence"`
	ProcessingMs int64         `json:"processing_ms"`
	Degraded     bool          `json:"degraded,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type SendMessageResponse struct {
	ChatSessionId uuid.UUID       `json:"chat_session_id"`
	Research      *StageResultDTO `json:"research,omitempty"`
	Guidance      *StageResultDTO `json:"guidance,omitempty"`
	Refused       bool            `json:"refused,omitempty"`
	Offline       bool            `json:"offline,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

// --- Websocket event payloads ---

// AiStatusEvent is the payload of "ai-status" frames.
type AiStatusEvent struct {
	Status  string `json:"status"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// AiResponseEvent is the payload of "ai-response" frames, one per
// completed stage.
type AiResponseEvent struct {
	ChatSessionId uuid.UUID     `json:"chat_session_id"`
	MessageId     uuid.UUID     `json:"message_id"`
	Type          string        `json:"type"`
	Content       string        `json:"content"`
	Citations     []CitationDTO `json:"citations"`
	Confidence    float64       `json:"confidence"`
	ProcessingMs  int64         `json:"processing_ms"`
	Degraded      bool          `json:"degraded,omitempty"`
}
