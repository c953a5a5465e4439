package search

import (
	"context"
	"errors"
	"testing"

	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Generate(text string) ([]float32, error) {
	return f.vec, f.err
}

type fakeKnowledgeRepo struct {
	contract.KnowledgeRepository

	matches     []*contract.ScoredKnowledgeChunk
	err         error
	searchCalls int
}

func (f *fakeKnowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	f.searchCalls++
	return f.matches, f.err
}

func match(source string, similarity float64) *contract.ScoredKnowledgeChunk {
	return &contract.ScoredKnowledgeChunk{
		Chunk:      &entity.KnowledgeChunk{Text: "내용", SourceFile: source},
		Similarity: similarity,
	}
}

func TestRetrieve(t *testing.T) {
	t.Run("embedding failure stops the turn", func(t *testing.T) {
		repo := &fakeKnowledgeRepo{}
		o := NewOrchestrator(&fakeEmbedder{err: errors.New("ollama down")}, repo, 5, 0.7, logger.NewNopLogger())

		matches, err := o.Retrieve(context.Background(), "안녕", "")

		assert.Error(t, err)
		assert.Nil(t, matches)
		assert.Zero(t, repo.searchCalls)
	})

	t.Run("search failure degrades to no context", func(t *testing.T) {
		repo := &fakeKnowledgeRepo{err: contract.ErrStoreUnavailable}
		o := NewOrchestrator(&fakeEmbedder{vec: []float32{0.1}}, repo, 5, 0.7, logger.NewNopLogger())

		matches, err := o.Retrieve(context.Background(), "안녕", "")

		assert.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("filters to the character's sources", func(t *testing.T) {
		repo := &fakeKnowledgeRepo{matches: []*contract.ScoredKnowledgeChunk{
			match("yuna_profile", 0.9),
			match("mina_story.txt", 0.8),
			match("yuna_hobbies.txt", 0.75),
		}}
		o := NewOrchestrator(&fakeEmbedder{vec: []float32{0.1}}, repo, 5, 0.7, logger.NewNopLogger())

		matches, err := o.Retrieve(context.Background(), "안녕", "yuna")

		assert.NoError(t, err)
		assert.Len(t, matches, 2)
		assert.Equal(t, "yuna_profile", matches[0].Chunk.SourceFile)
		assert.Equal(t, "yuna_hobbies.txt", matches[1].Chunk.SourceFile)
	})

	t.Run("no character keeps everything", func(t *testing.T) {
		repo := &fakeKnowledgeRepo{matches: []*contract.ScoredKnowledgeChunk{
			match("yuna_profile", 0.9),
			match("mina_story.txt", 0.8),
		}}
		o := NewOrchestrator(&fakeEmbedder{vec: []float32{0.1}}, repo, 5, 0.7, logger.NewNopLogger())

		matches, err := o.Retrieve(context.Background(), "안녕", "")

		assert.NoError(t, err)
		assert.Len(t, matches, 2)
	})
}

func TestAverageSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, AverageSimilarity(nil))

	matches := []*contract.ScoredKnowledgeChunk{
		match("a", 0.8),
		match("b", 0.6),
	}
	assert.InDelta(t, 0.7, AverageSimilarity(matches), 1e-9)
}
