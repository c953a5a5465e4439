package constant

// Chat roles (Ollama uses "assistant" where some providers use "model")
const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Friendly, in-character fallbacks. Raw errors must never reach the player;
// these keep the illusion of the character even during backend failure.
const (
	FallbackChatResponse    = "죄송해요, 지금 답변을 생각할 수 없어요. 다시 말씀해 주시겠어요?"
	FallbackEmotionResponse = "음... 뭔가 복잡한 기분이에요."
	NoContextPlaceholder    = "관련 정보를 찾을 수 없습니다."
)

// DefaultEmotionInstruction is used when the requested emotion tag is not in
// the EmotionInstructions set.
const DefaultEmotionInstruction = "자연스러운 감정으로"

// EmotionInstructions maps each supported emotion tag to the natural-language
// directive injected into the generation prompt.
var EmotionInstructions = map[string]string{
	"happy":    "기쁘고 즐거운 감정으로",
	"sad":      "조금 슬프고 우울한 감정으로",
	"excited":  "신나고 들뜬 감정으로",
	"shy":      "부끄럽고 수줍은 감정으로",
	"angry":    "화가 나고 짜증난 감정으로",
	"confused": "혼란스럽고 당황한 감정으로",
	"flirty":   "장난스럽고 매혹적인 감정으로",
}

// EmotionTemperatureGain scales emotion intensity into extra sampling
// temperature; intense turns read more varied. Capped at 1.0 downstream.
const EmotionTemperatureGain = 0.3
