package entity

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsEvent struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	EventType string
	Payload   map[string]interface{}
	CreatedAt time.Time
}
