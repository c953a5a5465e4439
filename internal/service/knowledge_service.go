package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/pkg/embedding"
	"ai-dategame-be/pkg/events"
	pkgNats "ai-dategame-be/pkg/nats"
	"ai-dategame-be/pkg/utils"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	Upload(ctx context.Context, req *dto.UploadKnowledgeRequest) (*dto.UploadKnowledgeResponse, error)
	IngestText(ctx context.Context, sourceFile string, text string) (int, error)
	DeleteSource(ctx context.Context, sourceFile string) (*dto.DeleteKnowledgeResponse, error)
	ListSources(ctx context.Context) (*dto.KnowledgeSourcesResponse, error)
	Stats(ctx context.Context, characterId string) (*dto.KnowledgeStatsResponse, error)
	RemoveCharacterKnowledge(ctx context.Context, characterId uuid.UUID) error
}

type knowledgeService struct {
	knowledgeRepository contract.KnowledgeRepository
	embeddingProvider   embedding.EmbeddingProvider
	eventPublisher      *pkgNats.Publisher
	chunkMaxTokens      int
	log                 logger.ILogger
}

func NewKnowledgeService(
	knowledgeRepository contract.KnowledgeRepository,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
	chunkMaxTokens int,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		knowledgeRepository: knowledgeRepository,
		embeddingProvider:   embeddingProvider,
		eventPublisher:      eventPublisher,
		chunkMaxTokens:      chunkMaxTokens,
		log:                 log,
	}
}

// Upload ingests one knowledge file from disk. The source id is
// "<characterId>_<filename>" so character-scoped retrieval and cleanup can
// match on it; re-uploading a source replaces its chunks.
func (s *knowledgeService) Upload(ctx context.Context, req *dto.UploadKnowledgeRequest) (*dto.UploadKnowledgeResponse, error) {
	content, err := os.ReadFile(req.FilePath)
	if err != nil {
		// An unreadable file is a non-fatal failure: report zero chunks and
		// leave any previously ingested version of the source untouched.
		s.log.Warn("knowledge.service", "failed to read knowledge file", map[string]interface{}{
			"file_path": req.FilePath,
			"error":     err.Error(),
		})
		return &dto.UploadKnowledgeResponse{
			FilePath:    req.FilePath,
			CharacterId: req.CharacterId,
		}, nil
	}

	sourceFile := filepath.Base(req.FilePath)
	if req.CharacterId != "" {
		sourceFile = fmt.Sprintf("%s_%s", req.CharacterId, sourceFile)
	}

	processed, err := s.IngestText(ctx, sourceFile, string(content))
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeKnowledgeUploaded,
			Data: map[string]interface{}{
				"source_file":      sourceFile,
				"character_id":     req.CharacterId,
				"chunks_processed": processed,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("knowledge.service", "failed to publish KNOWLEDGE_UPLOADED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.UploadKnowledgeResponse{
		FilePath:        req.FilePath,
		CharacterId:     req.CharacterId,
		ChunksProcessed: processed,
	}, nil
}

// IngestText chunks and embeds raw text under the given source id. Chunks
// whose embedding fails are skipped with a warning; the old chunks of the
// source are always dropped first so a partial embed never duplicates rows.
func (s *knowledgeService) IngestText(ctx context.Context, sourceFile string, text string) (int, error) {
	chunks := utils.ChunkText(text, s.chunkMaxTokens)

	newChunks := make([]*entity.KnowledgeChunk, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := s.embeddingProvider.Generate(chunk)
		if err != nil {
			s.log.Warn("knowledge.service", "failed to embed chunk, skipping", map[string]interface{}{
				"source_file": sourceFile,
				"chunk_index": i,
				"error":       err.Error(),
			})
			continue
		}

		newChunks = append(newChunks, &entity.KnowledgeChunk{
			Id:         uuid.New(),
			ChunkIndex: i,
			Text:       chunk,
			Embedding:  vector,
			SourceFile: sourceFile,
			CreatedAt:  time.Now(),
		})
	}

	if _, err := s.knowledgeRepository.DeleteBySource(ctx, sourceFile); err != nil {
		return 0, err
	}
	if len(newChunks) == 0 {
		return 0, nil
	}
	if err := s.knowledgeRepository.CreateBulk(ctx, newChunks); err != nil {
		return 0, err
	}

	s.log.Info("knowledge.service", "source ingested", map[string]interface{}{
		"source_file": sourceFile,
		"chunks":      len(newChunks),
	})
	return len(newChunks), nil
}

func (s *knowledgeService) DeleteSource(ctx context.Context, sourceFile string) (*dto.DeleteKnowledgeResponse, error) {
	deleted, err := s.knowledgeRepository.DeleteBySource(ctx, sourceFile)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteKnowledgeResponse{
		SourceFile: sourceFile,
		Deleted:    deleted,
	}, nil
}

func (s *knowledgeService) ListSources(ctx context.Context) (*dto.KnowledgeSourcesResponse, error) {
	sources, err := s.knowledgeRepository.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.KnowledgeSourcesResponse{Sources: sources}, nil
}

// Stats reports how many sources carry knowledge for a character. Matching
// is by source-id prefix, mirroring the upload naming.
func (s *knowledgeService) Stats(ctx context.Context, characterId string) (*dto.KnowledgeStatsResponse, error) {
	sources, err := s.knowledgeRepository.ListSources(ctx)
	if err != nil {
		return nil, err
	}

	var owned []string
	for _, source := range sources {
		if strings.HasPrefix(source, characterId+"_") {
			owned = append(owned, source)
		}
	}

	return &dto.KnowledgeStatsResponse{
		CharacterId:      characterId,
		KnowledgeSources: len(owned),
		Sources:          owned,
	}, nil
}

// RemoveCharacterKnowledge drops every source owned by the character. Used
// when a character is deleted; a missing store is not an error here.
func (s *knowledgeService) RemoveCharacterKnowledge(ctx context.Context, characterId uuid.UUID) error {
	sources, err := s.knowledgeRepository.ListSources(ctx)
	if err != nil {
		if errors.Is(err, contract.ErrStoreUnavailable) {
			return nil
		}
		return err
	}

	prefix := characterId.String() + "_"
	for _, source := range sources {
		if !strings.HasPrefix(source, prefix) {
			continue
		}
		if _, err := s.knowledgeRepository.DeleteBySource(ctx, source); err != nil {
			s.log.Warn("knowledge.service", "failed to delete character source", map[string]interface{}{
				"source_file": source,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
