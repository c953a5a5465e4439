package contract

import (
	"context"

	"ai-dategame-be/internal/entity"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindByCharacterId(ctx context.Context, characterId uuid.UUID, limit int) ([]*entity.ChatMessage, error)
}
