package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StageMessage struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type          string         `gorm:"type:varchar(50);not null"`
	Content       string         `gorm:"type:text;not null"`
	Citations     datatypes.JSON `gorm:"type:jsonb"`
	Confidence    *float64       `gorm:"type:numeric(3,2)"`
	ProcessingMs  int64          `gorm:"not null;default:0"`
	Degraded      bool           `gorm:"not null;default:false"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (StageMessage) TableName() string {
	return "stage_messages"
}
