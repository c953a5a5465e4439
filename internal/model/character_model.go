package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Character struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	Description   string    `gorm:"type:text"`
	Personality   string    `gorm:"type:text"`
	SpeakingStyle string    `gorm:"type:text"`
	Age           int       `gorm:"not null;default:0"`
	Occupation    string
	Background    string         `gorm:"type:text"`
	Profile       datatypes.JSON `gorm:"type:jsonb"` // free-form game metadata (sprites, voice, route flags)
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Character) TableName() string {
	return "characters"
}
