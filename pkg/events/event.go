package events

import "time"

// Event type codes published on the game bus.
const (
	TypeChatTurnRecorded  = "CHAT_TURN_RECORDED"
	TypeCharacterCreated  = "CHARACTER_CREATED"
	TypeCharacterUpdated  = "CHARACTER_UPDATED"
	TypeCharacterDeleted  = "CHARACTER_DELETED"
	TypeKnowledgeUploaded = "KNOWLEDGE_UPLOADED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
