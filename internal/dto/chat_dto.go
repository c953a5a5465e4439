package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message          string  `json:"message" validate:"required"`
	CharacterId      string  `json:"character_id,omitempty"`
	CharacterInfo    string  `json:"character_info,omitempty"`
	Emotion          string  `json:"emotion,omitempty"`
	EmotionIntensity float64 `json:"emotion_intensity,omitempty" validate:"gte=0,lte=1"`
	SessionId        string  `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Response       string  `json:"response"`
	ContextUsed    int     `json:"context_used"`
	AvgSimilarity  float64 `json:"avg_similarity"`
	ConversationId int     `json:"conversation_id"`
}

// StreamChunk is one websocket frame of a streaming chat turn.
type StreamChunk struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

type ChatHistoryItem struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	SessionId string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationTurnResponse struct {
	UserMessage   string    `json:"user_message"`
	AiResponse    string    `json:"ai_response"`
	CharacterId   string    `json:"character_id,omitempty"`
	ContextCount  int       `json:"context_count"`
	AvgSimilarity float64   `json:"avg_similarity"`
	CreatedAt     time.Time `json:"created_at"`
}
