package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Department struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Code         string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	State        string         `gorm:"type:varchar(50)"`
	Jurisdiction string         `gorm:"type:varchar(255)"`
	Policies     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (Department) TableName() string {
	return "departments"
}
