package prompt

import (
	"fmt"
	"strings"

	"ai-dategame-be/internal/constant"
	"ai-dategame-be/internal/repository/contract"
)

// basePersona keeps generation on-character: Korean only, short and warm.
// The brevity constraint matters: long replies break the game's chat UI.
const basePersona = `데이팅 게임 AI 캐릭터입니다. 한국어로만 응답하세요.

지침:
1. 한국어만 사용 (영어 금지)
2. 친근하고 매력적인 대화
3. 50-100자 내외의 짧고 간결한 응답
4. 감정 표현과 공감
5. 자연스러운 한국 문화 표현

응답은 반드시 짧고 간단하게 작성하세요.`

// BuildSystemPrompt renders the persona, optionally extended with a
// free-form character sheet. Pure and deterministic.
func BuildSystemPrompt(characterInfo string) string {
	if characterInfo == "" {
		return basePersona
	}

	var b strings.Builder
	b.WriteString(basePersona)
	b.WriteString("\n\n캐릭터 설정:\n")
	b.WriteString(characterInfo)
	return b.String()
}

// BuildUserPrompt merges the player's message with the retrieved context.
func BuildUserPrompt(userMessage string, matches []*contract.ScoredKnowledgeChunk) string {
	var b strings.Builder
	b.WriteString("사용자 메시지: ")
	b.WriteString(userMessage)
	b.WriteString("\n\n관련 컨텍스트:\n")
	b.WriteString(FormatContext(matches))
	b.WriteString("\n\n위 컨텍스트를 참고하여 게임 캐릭터로서 자연스럽고 매력적인 응답을 생성해주세요.")
	return b.String()
}

// FormatContext renders retrieved chunks as numbered entries with their
// similarity scores, or a placeholder when nothing was found.
func FormatContext(matches []*contract.ScoredKnowledgeChunk) string {
	if len(matches) == 0 {
		return constant.NoContextPlaceholder
	}

	formatted := make([]string, len(matches))
	for i, match := range matches {
		formatted[i] = fmt.Sprintf("[컨텍스트 %d] (유사도: %.3f)\n%s", i+1, match.Similarity, match.Chunk.Text)
	}
	return strings.Join(formatted, "\n\n")
}

// BuildEmotionPrompt renders the emotion-directed user prompt. Unknown
// emotion tags fall back to the neutral instruction; intensity is expressed
// as a percentage in [0,100].
func BuildEmotionPrompt(emotion string, context string, intensity float64) string {
	instruction, ok := constant.EmotionInstructions[emotion]
	if !ok {
		instruction = constant.DefaultEmotionInstruction
	}

	var b strings.Builder
	b.WriteString("상황: ")
	b.WriteString(context)
	b.WriteString("\n감정 지시: ")
	b.WriteString(instruction)
	b.WriteString(" 응답하세요.\n")
	b.WriteString(fmt.Sprintf("감정의 강도는 %.0f%%로 표현하세요.", intensity*100))
	b.WriteString("\n\n자연스럽고 게임 캐릭터답게 응답을 생성해주세요.")
	return b.String()
}
