package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/repository/implementation"
	"ai-dategame-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// Requires a running Postgres with the pgvector extension. Set
// DB_CONNECTION_STRING to run.
func TestVectorStoreRoundTrip(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	ctx := context.Background()
	repo := implementation.NewKnowledgeRepository(gormDB)
	assert.NoError(t, repo.EnsureSchema(ctx))

	source := "integration_" + uuid.NewString()
	defer repo.DeleteBySource(ctx, source)

	vec := make([]float32, 1024)
	vec[0] = 1 // unit vector along the first axis

	chunk := &entity.KnowledgeChunk{
		Id:         uuid.New(),
		ChunkIndex: 0,
		Text:       "유나는 커피를 좋아한다",
		Embedding:  vec,
		SourceFile: source,
		CreatedAt:  time.Now(),
	}
	assert.NoError(t, repo.CreateBulk(ctx, []*entity.KnowledgeChunk{chunk}))

	t.Run("identical vector scores near 1", func(t *testing.T) {
		matches, err := repo.SearchSimilar(ctx, vec, 5, 0.9)
		assert.NoError(t, err)

		found := false
		for _, match := range matches {
			if match.Chunk.SourceFile == source {
				found = true
				assert.InDelta(t, 1.0, match.Similarity, 1e-3)
			}
		}
		assert.True(t, found, "inserted chunk should be retrievable by its own vector")
	})

	t.Run("orthogonal vector filtered by threshold", func(t *testing.T) {
		other := make([]float32, 1024)
		other[1] = 1

		matches, err := repo.SearchSimilar(ctx, other, 5, 0.9)
		assert.NoError(t, err)
		for _, match := range matches {
			assert.NotEqual(t, source, match.Chunk.SourceFile)
		}
	})

	t.Run("delete by source reports count", func(t *testing.T) {
		deleted, err := repo.DeleteBySource(ctx, source)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})
}
