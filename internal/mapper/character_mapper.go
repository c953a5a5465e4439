package mapper

import (
	"encoding/json"
	"time"

	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/model"

	"gorm.io/datatypes"
)

type CharacterMapper struct{}

func NewCharacterMapper() *CharacterMapper {
	return &CharacterMapper{}
}

func (m *CharacterMapper) ToEntity(c *model.Character) *entity.Character {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var profile map[string]interface{}
	if len(c.Profile) > 0 {
		// Invalid stored JSON degrades to an empty profile
		_ = json.Unmarshal(c.Profile, &profile)
	}

	return &entity.Character{
		Id:            c.Id,
		Name:          c.Name,
		Description:   c.Description,
		Personality:   c.Personality,
		SpeakingStyle: c.SpeakingStyle,
		Age:           c.Age,
		Occupation:    c.Occupation,
		Background:    c.Background,
		Profile:       profile,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *CharacterMapper) ToModel(c *entity.Character) *model.Character {
	if c == nil {
		return nil
	}

	var profile datatypes.JSON
	if c.Profile != nil {
		if raw, err := json.Marshal(c.Profile); err == nil {
			profile = raw
		}
	}

	out := &model.Character{
		Id:            c.Id,
		Name:          c.Name,
		Description:   c.Description,
		Personality:   c.Personality,
		SpeakingStyle: c.SpeakingStyle,
		Age:           c.Age,
		Occupation:    c.Occupation,
		Background:    c.Background,
		Profile:       profile,
		CreatedAt:     c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		out.UpdatedAt = *c.UpdatedAt
	}
	return out
}
