package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one embedded segment of a character knowledge file.
type KnowledgeChunk struct {
	Id         uuid.UUID
	ChunkIndex int
	Text       string
	Embedding  []float32
	SourceFile string
	CreatedAt  time.Time
}
