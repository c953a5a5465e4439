package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OllamaBaseURL       string
	EmbeddingModel      string
	ChatModel           string
	MaxTokens           int
	Temperature         float64
	SimilarityThreshold float64
	MaxSearchResults    int
	ChunkMaxTokens      int
	EmbeddingDimensions int
	KnowledgeEmbedTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:      getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			ChatModel:           getEnv("OLLAMA_CHAT_MODEL", "llama3.1:8b"),
			MaxTokens:           getEnvAsInt("AI_MAX_TOKENS", 1000),
			Temperature:         getEnvAsFloat("AI_TEMPERATURE", 0.7),
			SimilarityThreshold: getEnvAsFloat("AI_SIMILARITY_THRESHOLD", 0.7),
			MaxSearchResults:    getEnvAsInt("AI_MAX_SEARCH_RESULTS", 5),
			ChunkMaxTokens:      getEnvAsInt("AI_CHUNK_MAX_TOKENS", 500),
			EmbeddingDimensions: getEnvAsInt("AI_EMBEDDING_DIMENSIONS", 1024),
			KnowledgeEmbedTopic: getEnv("KNOWLEDGE_EMBED_TOPIC_NAME", "EMBED_CHARACTER_KNOWLEDGE"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
