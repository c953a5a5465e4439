package entity

import (
	"time"

	"github.com/google/uuid"
)

// Character is a playable AI persona. Description/personality/speaking style
// feed the system prompt; the whole profile is embedded into the knowledge
// store under the "<id>_profile" source.
type Character struct {
	Id            uuid.UUID
	Name          string
	Description   string
	Personality   string
	SpeakingStyle string
	Age           int
	Occupation    string
	Background    string
	Profile       map[string]interface{}
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
