package implementation

import (
	"context"

	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/mapper"
	"ai-dategame-be/internal/model"
	"ai-dategame-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMessageMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMessageMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.db == nil {
		return contract.ErrStoreUnavailable
	}
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindByCharacterId(ctx context.Context, characterId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	if r.db == nil {
		return nil, contract.ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 100
	}

	var models []*model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("character_id = ?", characterId).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
