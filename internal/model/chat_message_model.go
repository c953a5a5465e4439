package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CharacterId *uuid.UUID `gorm:"type:uuid;index"`
	SessionId   string     `gorm:"index"`
	Role        string     `gorm:"not null"`
	Message     string     `gorm:"type:text;not null"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
