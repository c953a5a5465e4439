package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-dategame-be/internal/constant"
	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/internal/repository/memory"
	"ai-dategame-be/pkg/llm"
	"ai-dategame-be/pkg/rag/response"
	"ai-dategame-be/pkg/rag/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Generate(text string) ([]float32, error) {
	return s.vec, s.err
}

type stubKnowledgeRepo struct {
	contract.KnowledgeRepository

	matches []*contract.ScoredKnowledgeChunk
}

func (s *stubKnowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	return s.matches, nil
}

type stubCharacterRepo struct {
	contract.CharacterRepository

	characters map[uuid.UUID]*entity.Character
}

func (s *stubCharacterRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	return s.characters[id], nil
}

type stubChatMessageRepo struct {
	messages []*entity.ChatMessage
	err      error
}

func (s *stubChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message)
	return nil
}

func (s *stubChatMessageRepo) FindByCharacterId(ctx context.Context, characterId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	return s.messages, nil
}

type stubLLM struct {
	reply     string
	err       error
	fragments []string

	chatCalls   int
	lastHistory []llm.Message
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.chatCalls++
	s.lastHistory = history
	return s.reply, s.err
}

func (s *stubLLM) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan string, error) {
	s.lastHistory = history
	out := make(chan string, len(s.fragments))
	for _, fragment := range s.fragments {
		out <- fragment
	}
	close(out)
	return out, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, options...)
}

type chatFixture struct {
	service      IChatService
	llm          *stubLLM
	embedder     *stubEmbedder
	messageRepo  *stubChatMessageRepo
	characters   *stubCharacterRepo
	conversation *memory.ConversationLog
}

func newChatFixture(matches []*contract.ScoredKnowledgeChunk) *chatFixture {
	nop := logger.NewNopLogger()
	embedder := &stubEmbedder{vec: []float32{0.1, 0.2}}
	model := &stubLLM{reply: "반가워요!", fragments: []string{"반가", "워요!"}}
	messageRepo := &stubChatMessageRepo{}
	characters := &stubCharacterRepo{characters: map[uuid.UUID]*entity.Character{}}
	conversation := memory.NewConversationLog()

	searcher := search.NewOrchestrator(embedder, &stubKnowledgeRepo{matches: matches}, 5, 0.7, nop)
	generator := response.NewGenerator(model, 1000, 0.7, nop)

	return &chatFixture{
		service:      NewChatService(searcher, generator, characters, messageRepo, conversation, nil, nop),
		llm:          model,
		embedder:     embedder,
		messageRepo:  messageRepo,
		characters:   characters,
		conversation: conversation,
	}
}

func scoredChunk(source string, similarity float64) *contract.ScoredKnowledgeChunk {
	return &contract.ScoredKnowledgeChunk{
		Chunk:      &entity.KnowledgeChunk{Text: "유나는 커피를 좋아한다", SourceFile: source},
		Similarity: similarity,
	}
}

func TestChatEmbeddingFailureStopsTurn(t *testing.T) {
	f := newChatFixture(nil)
	f.embedder.err = errors.New("ollama unreachable")

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{Message: "안녕"})

	assert.Error(t, err)
	assert.Nil(t, res)
	assert.Zero(t, f.llm.chatCalls, "generation must not run without a query vector")
	assert.Empty(t, f.conversation.GetAll(), "a failed turn is not recorded")
}

func TestChatRecordsTurn(t *testing.T) {
	f := newChatFixture([]*contract.ScoredKnowledgeChunk{
		scoredChunk("yuna_profile", 0.9),
		scoredChunk("yuna_hobbies.txt", 0.7),
	})

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Message:     "안녕",
		CharacterId: "yuna",
		SessionId:   "session-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "반가워요!", res.Response)
	assert.Equal(t, 2, res.ContextUsed)
	assert.InDelta(t, 0.8, res.AvgSimilarity, 1e-9)
	assert.Equal(t, 0, res.ConversationId)

	turns := f.conversation.GetAll()
	assert.Len(t, turns, 1)
	assert.Equal(t, "안녕", turns[0].UserMessage)
	assert.Equal(t, "반가워요!", turns[0].AiResponse)
	assert.Equal(t, 2, turns[0].ContextCount)

	assert.Len(t, f.messageRepo.messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, f.messageRepo.messages[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, f.messageRepo.messages[1].Role)
	assert.Equal(t, "session-1", f.messageRepo.messages[0].SessionId)
}

func TestChatConversationIdIncrements(t *testing.T) {
	f := newChatFixture(nil)

	first, err := f.service.Chat(context.Background(), &dto.ChatRequest{Message: "안녕"})
	assert.NoError(t, err)
	second, err := f.service.Chat(context.Background(), &dto.ChatRequest{Message: "뭐해?"})
	assert.NoError(t, err)

	assert.Equal(t, 0, first.ConversationId)
	assert.Equal(t, 1, second.ConversationId)
}

func TestChatPersistFailureDoesNotFailTurn(t *testing.T) {
	f := newChatFixture(nil)
	f.messageRepo.err = contract.ErrStoreUnavailable

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{Message: "안녕"})

	assert.NoError(t, err)
	assert.Equal(t, "반가워요!", res.Response)
	assert.Len(t, f.conversation.GetAll(), 1)
}

func TestChatEmotionPath(t *testing.T) {
	f := newChatFixture([]*contract.ScoredKnowledgeChunk{scoredChunk("yuna_profile", 0.9)})

	res, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Message:          "선물 받았어!",
		CharacterId:      "yuna",
		Emotion:          "happy",
		EmotionIntensity: 0.8,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.ContextUsed, "context is still counted on emotion turns")
	assert.Contains(t, f.llm.lastHistory[1].Content, "기쁘고 즐거운 감정으로")
	assert.NotContains(t, f.llm.lastHistory[1].Content, "유나는 커피를 좋아한다",
		"emotion turns ignore retrieved context")
}

func TestChatResolvesStoredCharacterSheet(t *testing.T) {
	characterId := uuid.New()
	f := newChatFixture(nil)
	f.characters.characters[characterId] = &entity.Character{
		Id:   characterId,
		Name: "유나",
		Age:  24,
	}

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{
		Message:     "안녕",
		CharacterId: characterId.String(),
	})

	assert.NoError(t, err)
	assert.Contains(t, f.llm.lastHistory[0].Content, "이름: 유나")
	assert.Contains(t, f.llm.lastHistory[0].Content, "나이: 24세")
}

func TestChatStream(t *testing.T) {
	f := newChatFixture(nil)

	chunks, err := f.service.ChatStream(context.Background(), &dto.ChatRequest{Message: "안녕"})
	assert.NoError(t, err)

	var fragments []string
	var done bool
	for chunk := range chunks {
		if chunk.Done {
			done = true
			continue
		}
		fragments = append(fragments, chunk.Content)
	}

	assert.True(t, done, "stream must end with a done frame")
	assert.Equal(t, "반가워요!", strings.Join(fragments, ""))

	turns := f.conversation.GetAll()
	assert.Len(t, turns, 1)
	assert.Equal(t, "반가워요!", turns[0].AiResponse)
}

func TestChatStreamEmbeddingFailure(t *testing.T) {
	f := newChatFixture(nil)
	f.embedder.err = errors.New("ollama unreachable")

	chunks, err := f.service.ChatStream(context.Background(), &dto.ChatRequest{Message: "안녕"})

	assert.Error(t, err)
	assert.Nil(t, chunks)
}

func TestGetHistory(t *testing.T) {
	f := newChatFixture(nil)
	characterId := uuid.New()
	f.messageRepo.messages = []*entity.ChatMessage{
		{Id: uuid.New(), CharacterId: &characterId, Role: constant.ChatMessageRoleUser, Message: "안녕", CreatedAt: time.Now()},
	}

	items, err := f.service.GetHistory(context.Background(), characterId, 50)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "안녕", items[0].Message)
	assert.Equal(t, constant.ChatMessageRoleUser, items[0].Role)
}

func TestConversationLogFilterAndClear(t *testing.T) {
	f := newChatFixture(nil)

	_, err := f.service.Chat(context.Background(), &dto.ChatRequest{Message: "안녕", CharacterId: "yuna"})
	assert.NoError(t, err)
	_, err = f.service.Chat(context.Background(), &dto.ChatRequest{Message: "안녕", CharacterId: "mina"})
	assert.NoError(t, err)

	assert.Len(t, f.service.GetConversationLog(""), 2)
	assert.Len(t, f.service.GetConversationLog("yuna"), 1)

	f.service.ClearConversationLog("yuna")
	assert.Len(t, f.service.GetConversationLog(""), 1)

	f.service.ClearConversationLog("")
	assert.Empty(t, f.service.GetConversationLog(""))
}
