package response

import (
	"context"

	"ai-dategame-be/internal/constant"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/pkg/llm"
	"ai-dategame-be/pkg/rag/prompt"
)

// Generator turns composed prompts into character responses. Every entry
// point shares the same policy: a transport or status failure becomes the
// fixed in-character fallback, never an error surfaced to the player.
type Generator struct {
	provider    llm.LLMProvider
	maxTokens   int
	temperature float64
	log         logger.ILogger
}

func NewGenerator(provider llm.LLMProvider, maxTokens int, temperature float64, log logger.ILogger) *Generator {
	return &Generator{
		provider:    provider,
		maxTokens:   maxTokens,
		temperature: temperature,
		log:         log,
	}
}

// GameResponse produces a context-grounded, in-character reply.
func (g *Generator) GameResponse(ctx context.Context, userMessage string, matches []*contract.ScoredKnowledgeChunk, characterInfo string) string {
	reply, err := g.provider.Chat(ctx, g.gameHistory(userMessage, matches, characterInfo),
		llm.WithTemperature(g.temperature),
		llm.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.log.Error("rag.response", "game response generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.FallbackChatResponse
	}
	if reply == "" {
		return constant.FallbackChatResponse
	}
	return reply
}

// GameResponseStream is the lazy variant: fragments are delivered as they
// arrive. When the stream cannot be established the channel carries exactly
// one fallback fragment and closes.
func (g *Generator) GameResponseStream(ctx context.Context, userMessage string, matches []*contract.ScoredKnowledgeChunk, characterInfo string) <-chan string {
	fragments, err := g.provider.ChatStream(ctx, g.gameHistory(userMessage, matches, characterInfo),
		llm.WithTemperature(g.temperature),
		llm.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.log.Error("rag.response", "game response stream failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackStream(constant.FallbackChatResponse)
	}
	return fragments
}

// EmotionResponse produces a reply driven by an emotion directive instead of
// retrieved context. Temperature is nudged upward with intensity so intense
// turns read more varied; the bias is deliberate.
func (g *Generator) EmotionResponse(ctx context.Context, emotion string, situation string, intensity float64) string {
	reply, err := g.provider.Chat(ctx, g.emotionHistory(emotion, situation, intensity),
		llm.WithTemperature(g.emotionTemperature(intensity)),
		llm.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.log.Error("rag.response", "emotion response generation failed", map[string]interface{}{
			"emotion": emotion,
			"error":   err.Error(),
		})
		return constant.FallbackEmotionResponse
	}
	if reply == "" {
		return constant.FallbackEmotionResponse
	}
	return reply
}

// EmotionResponseStream is the lazy variant of EmotionResponse.
func (g *Generator) EmotionResponseStream(ctx context.Context, emotion string, situation string, intensity float64) <-chan string {
	fragments, err := g.provider.ChatStream(ctx, g.emotionHistory(emotion, situation, intensity),
		llm.WithTemperature(g.emotionTemperature(intensity)),
		llm.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.log.Error("rag.response", "emotion response stream failed", map[string]interface{}{
			"emotion": emotion,
			"error":   err.Error(),
		})
		return fallbackStream(constant.FallbackEmotionResponse)
	}
	return fragments
}

func (g *Generator) gameHistory(userMessage string, matches []*contract.ScoredKnowledgeChunk, characterInfo string) []llm.Message {
	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: prompt.BuildSystemPrompt(characterInfo)},
		{Role: constant.ChatMessageRoleUser, Content: prompt.BuildUserPrompt(userMessage, matches)},
	}
}

func (g *Generator) emotionHistory(emotion string, situation string, intensity float64) []llm.Message {
	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: prompt.BuildSystemPrompt("")},
		{Role: constant.ChatMessageRoleUser, Content: prompt.BuildEmotionPrompt(emotion, situation, intensity)},
	}
}

func (g *Generator) emotionTemperature(intensity float64) float64 {
	temp := g.temperature + intensity*constant.EmotionTemperatureGain
	if temp > 1.0 {
		temp = 1.0
	}
	return temp
}

func fallbackStream(fallback string) <-chan string {
	out := make(chan string, 1)
	out <- fallback
	close(out)
	return out
}
