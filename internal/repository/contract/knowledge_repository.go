package contract

import (
	"context"

	"ai-dategame-be/internal/entity"
)

// ScoredKnowledgeChunk wraps KnowledgeChunk with its similarity score
type ScoredKnowledgeChunk struct {
	Chunk      *entity.KnowledgeChunk
	Similarity float64 // cosine similarity, 1.0 = identical
}

type KnowledgeRepository interface {
	// EnsureSchema idempotently creates the vector extension, the embeddings
	// table and its ANN index. Safe to call on every startup; failures are
	// returned for the caller to log, never to abort on.
	EnsureSchema(ctx context.Context) error
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	// SearchSimilar returns chunks whose cosine similarity to the query
	// vector is strictly greater than threshold, ordered by descending
	// similarity, at most limit rows.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeChunk, error)
	// DeleteBySource removes every chunk of the given source and reports the
	// count. Deleting an unknown source is a no-op.
	DeleteBySource(ctx context.Context, sourceFile string) (int64, error)
	ListSources(ctx context.Context) ([]string, error)
}
