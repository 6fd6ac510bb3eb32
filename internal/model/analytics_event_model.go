package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalyticsEvent struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventType string         `gorm:"type:varchar(100);not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"default:now();not null;index"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
