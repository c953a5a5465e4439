package mapper

import (
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/model"
)

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}

	return &entity.ChatMessage{
		Id:          c.Id,
		CharacterId: c.CharacterId,
		SessionId:   c.SessionId,
		Role:        c.Role,
		Message:     c.Message,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:          c.Id,
		CharacterId: c.CharacterId,
		SessionId:   c.SessionId,
		Role:        c.Role,
		Message:     c.Message,
		CreatedAt:   c.CreatedAt,
	}
}
