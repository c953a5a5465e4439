package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCharacterRequest struct {
	Name          string                 `json:"name" validate:"required"`
	Description   string                 `json:"description,omitempty"`
	Personality   string                 `json:"personality,omitempty"`
	SpeakingStyle string                 `json:"speaking_style,omitempty"`
	Age           int                    `json:"age" validate:"gte=0"`
	Occupation    string                 `json:"occupation,omitempty"`
	Background    string                 `json:"background,omitempty"`
	Profile       map[string]interface{} `json:"profile,omitempty"`
}

type UpdateCharacterRequest struct {
	Id            uuid.UUID              `json:"-"`
	Name          string                 `json:"name" validate:"required"`
	Description   string                 `json:"description,omitempty"`
	Personality   string                 `json:"personality,omitempty"`
	SpeakingStyle string                 `json:"speaking_style,omitempty"`
	Age           int                    `json:"age" validate:"gte=0"`
	Occupation    string                 `json:"occupation,omitempty"`
	Background    string                 `json:"background,omitempty"`
	Profile       map[string]interface{} `json:"profile,omitempty"`
}

type CharacterResponse struct {
	Id            uuid.UUID              `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	Personality   string                 `json:"personality,omitempty"`
	SpeakingStyle string                 `json:"speaking_style,omitempty"`
	Age           int                    `json:"age"`
	Occupation    string                 `json:"occupation,omitempty"`
	Background    string                 `json:"background,omitempty"`
	Profile       map[string]interface{} `json:"profile,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     *time.Time             `json:"updated_at,omitempty"`
}

// PublishEmbedCharacterMessage is the pubsub payload asking the consumer to
// (re)embed a character's profile into the knowledge store.
type PublishEmbedCharacterMessage struct {
	CharacterId uuid.UUID `json:"character_id"`
}
