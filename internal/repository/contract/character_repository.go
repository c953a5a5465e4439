package contract

import (
	"context"

	"ai-dategame-be/internal/entity"

	"github.com/google/uuid"
)

type CharacterRepository interface {
	Create(ctx context.Context, character *entity.Character) error
	Update(ctx context.Context, character *entity.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Character, error)
	FindAll(ctx context.Context) ([]*entity.Character, error)
}
