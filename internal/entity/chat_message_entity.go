package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id          uuid.UUID
	CharacterId *uuid.UUID
	SessionId   string
	Role        string // constant.ChatMessageRoleUser | constant.ChatMessageRoleAssistant
	Message     string
	CreatedAt   time.Time
}
