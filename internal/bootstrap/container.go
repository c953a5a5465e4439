package bootstrap

import (
	"context"
	"log"

	"ai-dategame-be/internal/config"
	"ai-dategame-be/internal/controller"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/internal/repository/implementation"
	"ai-dategame-be/internal/repository/memory"
	"ai-dategame-be/internal/service"
	"ai-dategame-be/internal/websocket"
	"ai-dategame-be/pkg/embedding"
	"ai-dategame-be/pkg/llm/ollama"
	pkgNats "ai-dategame-be/pkg/nats"
	"ai-dategame-be/pkg/rag/response"
	"ai-dategame-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	CharacterController controller.ICharacterController
	KnowledgeController controller.IKnowledgeController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Repositories (exposed for main.go schema setup)
	KnowledgeRepository contract.KnowledgeRepository
}

// NewContainer wires the dialogue backend. db may be nil when the store
// never came up; repositories then answer with ErrStoreUnavailable and the
// chat pipeline runs context-free.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Redis, used as the embedding cache. Missing Redis just means cold
	// embeddings every time.
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// NATS event publisher, best effort
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// AI providers
	var embeddingProvider embedding.EmbeddingProvider = embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, rdb)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)

	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.ChatModel)
	log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.ChatModel)

	// Repositories
	knowledgeRepo := implementation.NewKnowledgeRepository(db)
	characterRepo := implementation.NewCharacterRepository(db)
	chatMessageRepo := implementation.NewChatMessageRepository(db)
	conversationLog := memory.NewConversationLog()

	// RAG pipeline
	searcher := search.NewOrchestrator(
		embeddingProvider,
		knowledgeRepo,
		cfg.Ai.MaxSearchResults,
		cfg.Ai.SimilarityThreshold,
		sysLogger,
	)
	generator := response.NewGenerator(
		llmProvider,
		cfg.Ai.MaxTokens,
		cfg.Ai.Temperature,
		sysLogger,
	)

	// Services
	publisherService := service.NewPublisherService(cfg.Ai.KnowledgeEmbedTopic, pubSub)
	knowledgeService := service.NewKnowledgeService(
		knowledgeRepo,
		embeddingProvider,
		natsPub,
		cfg.Ai.ChunkMaxTokens,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.KnowledgeEmbedTopic,
		characterRepo,
		knowledgeService,
		sysLogger,
	)
	characterService := service.NewCharacterService(
		characterRepo,
		knowledgeService,
		publisherService,
		natsPub,
		sysLogger,
	)
	chatService := service.NewChatService(
		searcher,
		generator,
		characterRepo,
		chatMessageRepo,
		conversationLog,
		natsPub,
		sysLogger,
	)

	// Controllers
	streamHandler := websocket.NewChatStreamHandler(chatService, sysLogger)
	chatController := controller.NewChatController(chatService, streamHandler)
	characterController := controller.NewCharacterController(characterService)
	knowledgeController := controller.NewKnowledgeController(knowledgeService)

	return &Container{
		ChatController:      chatController,
		CharacterController: characterController,
		KnowledgeController: knowledgeController,
		ConsumerService:     consumerService,
		KnowledgeRepository: knowledgeRepo,
	}
}
