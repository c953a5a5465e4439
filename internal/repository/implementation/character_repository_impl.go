package implementation

import (
	"context"
	"errors"

	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/mapper"
	"ai-dategame-be/internal/model"
	"ai-dategame-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CharacterRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CharacterMapper
}

func NewCharacterRepository(db *gorm.DB) contract.CharacterRepository {
	return &CharacterRepositoryImpl{
		db:     db,
		mapper: mapper.NewCharacterMapper(),
	}
}

func (r *CharacterRepositoryImpl) Create(ctx context.Context, character *entity.Character) error {
	if r.db == nil {
		return contract.ErrStoreUnavailable
	}
	m := r.mapper.ToModel(character)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*character = *r.mapper.ToEntity(m)
	return nil
}

func (r *CharacterRepositoryImpl) Update(ctx context.Context, character *entity.Character) error {
	if r.db == nil {
		return contract.ErrStoreUnavailable
	}
	m := r.mapper.ToModel(character)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*character = *r.mapper.ToEntity(m)
	return nil
}

func (r *CharacterRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return contract.ErrStoreUnavailable
	}
	return r.db.WithContext(ctx).Delete(&model.Character{}, id).Error
}

func (r *CharacterRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	if r.db == nil {
		return nil, contract.ErrStoreUnavailable
	}
	var m model.Character
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CharacterRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Character, error) {
	if r.db == nil {
		return nil, contract.ErrStoreUnavailable
	}
	var models []*model.Character
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Character, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
