package entity

import "time"

// ConversationTurn is one user/AI exchange in the in-process log. Never
// mutated after creation; cleared wholesale or per character on demand.
type ConversationTurn struct {
	UserMessage   string
	AiResponse    string
	CharacterId   string
	ContextCount  int
	AvgSimilarity float64
	CreatedAt     time.Time
}
