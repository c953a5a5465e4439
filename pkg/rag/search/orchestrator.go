package search

import (
	"context"
	"fmt"
	"strings"

	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/pkg/embedding"
)

// Orchestrator runs the retrieval half of a chat turn: vectorize the query,
// search the knowledge store, optionally narrow the matches to one
// character's sources.
type Orchestrator struct {
	embedder  embedding.EmbeddingProvider
	knowledge contract.KnowledgeRepository
	limit     int
	threshold float64
	log       logger.ILogger
}

func NewOrchestrator(
	embedder embedding.EmbeddingProvider,
	knowledge contract.KnowledgeRepository,
	limit int,
	threshold float64,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		embedder:  embedder,
		knowledge: knowledge,
		limit:     limit,
		threshold: threshold,
		log:       log,
	}
}

// Retrieve embeds the query and searches for context. An embedding failure
// is the one hard error: without a query vector the turn cannot proceed.
// Search failures degrade to an empty result and are only logged.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, characterId string) ([]*contract.ScoredKnowledgeChunk, error) {
	queryVector, err := o.embedder.Generate(query)
	if err != nil {
		o.log.Error("rag.search", "query embedding failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := o.knowledge.SearchSimilar(ctx, queryVector, o.limit, o.threshold)
	if err != nil {
		o.log.Warn("rag.search", "similarity search failed, continuing without context", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	if characterId != "" {
		matches = FilterByCharacter(matches, characterId)
	}
	return matches, nil
}

// FilterByCharacter keeps matches whose source id contains the character id.
// Substring matching mirrors the "<characterId>_<filename>" source naming;
// overlapping character names can false-positive, which callers accept.
func FilterByCharacter(matches []*contract.ScoredKnowledgeChunk, characterId string) []*contract.ScoredKnowledgeChunk {
	filtered := make([]*contract.ScoredKnowledgeChunk, 0, len(matches))
	for _, match := range matches {
		if strings.Contains(match.Chunk.SourceFile, characterId) {
			filtered = append(filtered, match)
		}
	}
	return filtered
}

// AverageSimilarity of the matches actually used for a turn; 0 when none.
func AverageSimilarity(matches []*contract.ScoredKnowledgeChunk) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, match := range matches {
		sum += match.Similarity
	}
	return sum / float64(len(matches))
}
