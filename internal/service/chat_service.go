package service

import (
	"context"
	"time"

	"ai-dategame-be/internal/constant"
	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/internal/repository/memory"
	"ai-dategame-be/pkg/events"
	pkgNats "ai-dategame-be/pkg/nats"
	"ai-dategame-be/pkg/rag/response"
	"ai-dategame-be/pkg/rag/search"

	"github.com/google/uuid"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, req *dto.ChatRequest) (<-chan dto.StreamChunk, error)
	GetHistory(ctx context.Context, characterId uuid.UUID, limit int) ([]*dto.ChatHistoryItem, error)
	GetConversationLog(characterId string) []*dto.ConversationTurnResponse
	ClearConversationLog(characterId string)
}

// chatService runs a full dialogue turn: retrieve context, generate the
// character's reply, record the turn. Only retrieval's embedding step may
// fail the turn; everything after degrades to fallbacks or warnings.
type chatService struct {
	searcher              *search.Orchestrator
	generator             *response.Generator
	characterRepository   contract.CharacterRepository
	chatMessageRepository contract.ChatMessageRepository
	conversationLog       *memory.ConversationLog
	eventPublisher        *pkgNats.Publisher
	log                   logger.ILogger
}

func NewChatService(
	searcher *search.Orchestrator,
	generator *response.Generator,
	characterRepository contract.CharacterRepository,
	chatMessageRepository contract.ChatMessageRepository,
	conversationLog *memory.ConversationLog,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		searcher:              searcher,
		generator:             generator,
		characterRepository:   characterRepository,
		chatMessageRepository: chatMessageRepository,
		conversationLog:       conversationLog,
		eventPublisher:        eventPublisher,
		log:                   log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	matches, err := s.searcher.Retrieve(ctx, req.Message, req.CharacterId)
	if err != nil {
		return nil, err
	}

	characterInfo := s.resolveCharacterInfo(ctx, req)

	var reply string
	if req.Emotion != "" {
		reply = s.generator.EmotionResponse(ctx, req.Emotion, req.Message, req.EmotionIntensity)
	} else {
		reply = s.generator.GameResponse(ctx, req.Message, matches, characterInfo)
	}

	conversationId := s.recordTurn(ctx, req, reply, matches)

	return &dto.ChatResponse{
		Response:       reply,
		ContextUsed:    len(matches),
		AvgSimilarity:  search.AverageSimilarity(matches),
		ConversationId: conversationId,
	}, nil
}

// ChatStream runs the same pipeline as Chat but delivers the reply as
// fragments. The turn is recorded once the fragment channel closes, with the
// concatenated reply.
func (s *chatService) ChatStream(ctx context.Context, req *dto.ChatRequest) (<-chan dto.StreamChunk, error) {
	matches, err := s.searcher.Retrieve(ctx, req.Message, req.CharacterId)
	if err != nil {
		return nil, err
	}

	characterInfo := s.resolveCharacterInfo(ctx, req)

	var fragments <-chan string
	if req.Emotion != "" {
		fragments = s.generator.EmotionResponseStream(ctx, req.Emotion, req.Message, req.EmotionIntensity)
	} else {
		fragments = s.generator.GameResponseStream(ctx, req.Message, matches, characterInfo)
	}

	out := make(chan dto.StreamChunk)
	go func() {
		defer close(out)

		var full string
		for fragment := range fragments {
			full += fragment
			select {
			case out <- dto.StreamChunk{Content: fragment}:
			case <-ctx.Done():
				return
			}
		}

		s.recordTurn(ctx, req, full, matches)

		select {
		case out <- dto.StreamChunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return out, nil
}

func (s *chatService) GetHistory(ctx context.Context, characterId uuid.UUID, limit int) ([]*dto.ChatHistoryItem, error) {
	messages, err := s.chatMessageRepository.FindByCharacterId(ctx, characterId, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChatHistoryItem, len(messages))
	for i, message := range messages {
		items[i] = &dto.ChatHistoryItem{
			Id:        message.Id,
			Role:      message.Role,
			Message:   message.Message,
			SessionId: message.SessionId,
			CreatedAt: message.CreatedAt,
		}
	}
	return items, nil
}

func (s *chatService) GetConversationLog(characterId string) []*dto.ConversationTurnResponse {
	var turns []*entity.ConversationTurn
	if characterId == "" {
		turns = s.conversationLog.GetAll()
	} else {
		turns = s.conversationLog.GetByCharacter(characterId)
	}

	responses := make([]*dto.ConversationTurnResponse, len(turns))
	for i, turn := range turns {
		responses[i] = &dto.ConversationTurnResponse{
			UserMessage:   turn.UserMessage,
			AiResponse:    turn.AiResponse,
			CharacterId:   turn.CharacterId,
			ContextCount:  turn.ContextCount,
			AvgSimilarity: turn.AvgSimilarity,
			CreatedAt:     turn.CreatedAt,
		}
	}
	return responses
}

func (s *chatService) ClearConversationLog(characterId string) {
	s.conversationLog.Clear(characterId)
}

// resolveCharacterInfo prefers the sheet sent with the request; otherwise it
// is rebuilt from the stored character when the id resolves. An unknown or
// unparseable id just means a bare persona.
func (s *chatService) resolveCharacterInfo(ctx context.Context, req *dto.ChatRequest) string {
	if req.CharacterInfo != "" {
		return req.CharacterInfo
	}
	if req.CharacterId == "" {
		return ""
	}

	characterId, err := uuid.Parse(req.CharacterId)
	if err != nil {
		return ""
	}

	character, err := s.characterRepository.FindById(ctx, characterId)
	if err != nil || character == nil {
		return ""
	}
	return composeCharacterSheet(character)
}

// recordTurn appends to the in-process log (always succeeds), persists both
// sides of the exchange (best effort) and emits the turn event (best
// effort). Returns the log index as the conversation id.
func (s *chatService) recordTurn(ctx context.Context, req *dto.ChatRequest, reply string, matches []*contract.ScoredKnowledgeChunk) int {
	conversationId := s.conversationLog.Append(&entity.ConversationTurn{
		UserMessage:   req.Message,
		AiResponse:    reply,
		CharacterId:   req.CharacterId,
		ContextCount:  len(matches),
		AvgSimilarity: search.AverageSimilarity(matches),
		CreatedAt:     time.Now(),
	})

	var characterId *uuid.UUID
	if parsed, err := uuid.Parse(req.CharacterId); err == nil {
		characterId = &parsed
	}

	s.persistMessage(ctx, characterId, req.SessionId, constant.ChatMessageRoleUser, req.Message)
	s.persistMessage(ctx, characterId, req.SessionId, constant.ChatMessageRoleAssistant, reply)

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeChatTurnRecorded,
			Data: map[string]interface{}{
				"character_id":    req.CharacterId,
				"session_id":      req.SessionId,
				"context_used":    len(matches),
				"conversation_id": conversationId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("chat.service", "failed to publish CHAT_TURN_RECORDED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return conversationId
}

func (s *chatService) persistMessage(ctx context.Context, characterId *uuid.UUID, sessionId string, role string, text string) {
	err := s.chatMessageRepository.Create(ctx, &entity.ChatMessage{
		Id:          uuid.New(),
		CharacterId: characterId,
		SessionId:   sessionId,
		Role:        role,
		Message:     text,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.log.Warn("chat.service", "failed to persist chat message", map[string]interface{}{
			"role":  role,
			"error": err.Error(),
		})
	}
}
