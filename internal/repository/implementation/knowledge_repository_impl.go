package implementation

import (
	"context"

	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/mapper"
	"ai-dategame-be/internal/model"
	"ai-dategame-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeChunkMapper
}

// NewKnowledgeRepository accepts a nil db: a store that failed to connect
// still satisfies the contract, every operation then returns
// contract.ErrStoreUnavailable and callers degrade gracefully.
func NewKnowledgeRepository(db *gorm.DB) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeChunkMapper(),
	}
}

func (r *KnowledgeRepositoryImpl) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return contract.ErrStoreUnavailable
	}

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			chunk_id INTEGER DEFAULT 0,
			text TEXT NOT NULL,
			embedding VECTOR(1024),
			source_file TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS embeddings_vector_idx
			ON embeddings USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100)`,
		`CREATE INDEX IF NOT EXISTS embeddings_source_file_idx
			ON embeddings (source_file)`,
	}

	for _, stmt := range statements {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *KnowledgeRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	if r.db == nil {
		return contract.ErrStoreUnavailable
	}
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update generated IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

// SearchSimilar computes similarity as 1 - cosine_distance. Rows must clear
// the threshold strictly; ordering by similarity DESC equals ordering by
// ascending pgvector distance.
func (r *KnowledgeRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	if r.db == nil {
		return nil, contract.ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.KnowledgeChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("embeddings").
		Select("embeddings.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("1 - (embedding <=> ?) > ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredKnowledgeChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledgeChunk{
			Chunk:      r.mapper.ToEntity(&res.KnowledgeChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *KnowledgeRepositoryImpl) DeleteBySource(ctx context.Context, sourceFile string) (int64, error) {
	if r.db == nil {
		return 0, contract.ErrStoreUnavailable
	}

	tx := r.db.WithContext(ctx).
		Where("source_file = ?", sourceFile).
		Delete(&model.KnowledgeChunk{})
	return tx.RowsAffected, tx.Error
}

func (r *KnowledgeRepositoryImpl) ListSources(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, contract.ErrStoreUnavailable
	}

	var sources []string
	err := r.db.WithContext(ctx).
		Model(&model.KnowledgeChunk{}).
		Distinct("source_file").
		Pluck("source_file", &sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}
