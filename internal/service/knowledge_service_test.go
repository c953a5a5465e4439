package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type memKnowledgeRepo struct {
	chunks  map[string][]*entity.KnowledgeChunk
	listErr error
}

func newMemKnowledgeRepo() *memKnowledgeRepo {
	return &memKnowledgeRepo{chunks: map[string][]*entity.KnowledgeChunk{}}
}

func (m *memKnowledgeRepo) EnsureSchema(ctx context.Context) error {
	return nil
}

func (m *memKnowledgeRepo) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	for _, chunk := range chunks {
		m.chunks[chunk.SourceFile] = append(m.chunks[chunk.SourceFile], chunk)
	}
	return nil
}

func (m *memKnowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	return nil, nil
}

func (m *memKnowledgeRepo) DeleteBySource(ctx context.Context, sourceFile string) (int64, error) {
	deleted := int64(len(m.chunks[sourceFile]))
	delete(m.chunks, sourceFile)
	return deleted, nil
}

func (m *memKnowledgeRepo) ListSources(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var sources []string
	for source := range m.chunks {
		sources = append(sources, source)
	}
	return sources, nil
}

type countingEmbedder struct {
	calls int
	fail  map[int]bool // call indexes that should fail
}

func (c *countingEmbedder) Generate(text string) ([]float32, error) {
	call := c.calls
	c.calls++
	if c.fail[call] {
		return nil, errors.New("embedding failed")
	}
	return []float32{0.1, 0.2}, nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleKnowledge = "[성격]\n밝고 명랑한 성격이며 사람들과 어울리기 좋아합니다. [취미]\n주말마다 카페에서 커피를 마시며 책을 읽습니다."

func TestKnowledgeUpload(t *testing.T) {
	repo := newMemKnowledgeRepo()
	svc := NewKnowledgeService(repo, &countingEmbedder{}, nil, 500, logger.NewNopLogger())

	path := writeTempFile(t, "yuna.txt", sampleKnowledge)

	res, err := svc.Upload(context.Background(), &dto.UploadKnowledgeRequest{
		FilePath:    path,
		CharacterId: "yuna",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.ChunksProcessed)
	assert.Len(t, repo.chunks["yuna_yuna.txt"], 2)
	assert.Equal(t, 0, repo.chunks["yuna_yuna.txt"][0].ChunkIndex)
}

func TestKnowledgeUploadMissingFile(t *testing.T) {
	svc := NewKnowledgeService(newMemKnowledgeRepo(), &countingEmbedder{}, nil, 500, logger.NewNopLogger())

	res, err := svc.Upload(context.Background(), &dto.UploadKnowledgeRequest{
		FilePath: "/does/not/exist.txt",
	})

	assert.NoError(t, err, "an unreadable file is a non-fatal failure")
	assert.Zero(t, res.ChunksProcessed)
}

func TestKnowledgeUploadReplacesSource(t *testing.T) {
	repo := newMemKnowledgeRepo()
	svc := NewKnowledgeService(repo, &countingEmbedder{}, nil, 500, logger.NewNopLogger())

	path := writeTempFile(t, "yuna.txt", sampleKnowledge)
	req := &dto.UploadKnowledgeRequest{FilePath: path, CharacterId: "yuna"}

	_, err := svc.Upload(context.Background(), req)
	assert.NoError(t, err)
	_, err = svc.Upload(context.Background(), req)
	assert.NoError(t, err)

	assert.Len(t, repo.chunks["yuna_yuna.txt"], 2, "re-upload must replace, not append")
}

func TestIngestTextSkipsFailedChunks(t *testing.T) {
	repo := newMemKnowledgeRepo()
	embedder := &countingEmbedder{fail: map[int]bool{0: true}}
	svc := NewKnowledgeService(repo, embedder, nil, 500, logger.NewNopLogger())

	processed, err := svc.IngestText(context.Background(), "yuna_profile", sampleKnowledge)

	assert.NoError(t, err)
	assert.Equal(t, 1, processed, "the failed chunk is skipped, the rest survive")
	assert.Len(t, repo.chunks["yuna_profile"], 1)
}

func TestKnowledgeStats(t *testing.T) {
	repo := newMemKnowledgeRepo()
	repo.chunks["yuna_profile"] = []*entity.KnowledgeChunk{{}}
	repo.chunks["yuna_hobbies.txt"] = []*entity.KnowledgeChunk{{}}
	repo.chunks["mina_profile"] = []*entity.KnowledgeChunk{{}}
	svc := NewKnowledgeService(repo, &countingEmbedder{}, nil, 500, logger.NewNopLogger())

	res, err := svc.Stats(context.Background(), "yuna")

	assert.NoError(t, err)
	assert.Equal(t, 2, res.KnowledgeSources)
	assert.ElementsMatch(t, []string{"yuna_profile", "yuna_hobbies.txt"}, res.Sources)
}

func TestRemoveCharacterKnowledge(t *testing.T) {
	characterId := uuid.New()
	repo := newMemKnowledgeRepo()
	repo.chunks[characterId.String()+"_profile"] = []*entity.KnowledgeChunk{{}}
	repo.chunks[characterId.String()+"_story.txt"] = []*entity.KnowledgeChunk{{}}
	repo.chunks["other_profile"] = []*entity.KnowledgeChunk{{}}
	svc := NewKnowledgeService(repo, &countingEmbedder{}, nil, 500, logger.NewNopLogger())

	err := svc.RemoveCharacterKnowledge(context.Background(), characterId)

	assert.NoError(t, err)
	assert.Len(t, repo.chunks, 1)
	assert.Contains(t, repo.chunks, "other_profile")
}

func TestRemoveCharacterKnowledgeStoreDown(t *testing.T) {
	repo := newMemKnowledgeRepo()
	repo.listErr = contract.ErrStoreUnavailable
	svc := NewKnowledgeService(repo, &countingEmbedder{}, nil, 500, logger.NewNopLogger())

	assert.NoError(t, svc.RemoveCharacterKnowledge(context.Background(), uuid.New()))
}
