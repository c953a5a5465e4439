package prompt

import (
	"strings"
	"testing"

	"ai-dategame-be/internal/constant"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/repository/contract"
)

func scored(text string, similarity float64) *contract.ScoredKnowledgeChunk {
	return &contract.ScoredKnowledgeChunk{
		Chunk:      &entity.KnowledgeChunk{Text: text},
		Similarity: similarity,
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	t.Run("bare persona", func(t *testing.T) {
		got := BuildSystemPrompt("")
		if !strings.Contains(got, "한국어로만 응답하세요") {
			t.Errorf("missing persona directive: %q", got)
		}
		if strings.Contains(got, "캐릭터 설정") {
			t.Errorf("unexpected character block without info: %q", got)
		}
	})

	t.Run("with character sheet", func(t *testing.T) {
		got := BuildSystemPrompt("이름: 유나\n직업: 바리스타")
		if !strings.Contains(got, "캐릭터 설정:\n이름: 유나\n직업: 바리스타") {
			t.Errorf("character block not appended: %q", got)
		}
	})
}

func TestFormatContext(t *testing.T) {
	t.Run("no matches", func(t *testing.T) {
		if got := FormatContext(nil); got != constant.NoContextPlaceholder {
			t.Errorf("FormatContext(nil) = %q, want placeholder", got)
		}
	})

	t.Run("numbered entries with similarity", func(t *testing.T) {
		got := FormatContext([]*contract.ScoredKnowledgeChunk{
			scored("유나는 커피를 좋아한다", 0.85),
			scored("유나는 고양이를 키운다", 0.7251),
		})
		if !strings.Contains(got, "[컨텍스트 1] (유사도: 0.850)\n유나는 커피를 좋아한다") {
			t.Errorf("first entry malformed: %q", got)
		}
		if !strings.Contains(got, "[컨텍스트 2] (유사도: 0.725)\n유나는 고양이를 키운다") {
			t.Errorf("second entry malformed: %q", got)
		}
	})
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("오늘 뭐 했어?", []*contract.ScoredKnowledgeChunk{
		scored("유나는 오늘 카페에서 일했다", 0.9),
	})
	if !strings.Contains(got, "사용자 메시지: 오늘 뭐 했어?") {
		t.Errorf("user message missing: %q", got)
	}
	if !strings.Contains(got, "유나는 오늘 카페에서 일했다") {
		t.Errorf("context missing: %q", got)
	}
}

func TestBuildEmotionPrompt(t *testing.T) {
	tests := []struct {
		name            string
		emotion         string
		intensity       float64
		wantInstruction string
		wantIntensity   string
	}{
		{
			name:            "known emotion",
			emotion:         "happy",
			intensity:       0.7,
			wantInstruction: "기쁘고 즐거운 감정으로",
			wantIntensity:   "감정의 강도는 70%로 표현하세요.",
		},
		{
			name:            "unknown emotion falls back",
			emotion:         "nostalgic",
			intensity:       1,
			wantInstruction: constant.DefaultEmotionInstruction,
			wantIntensity:   "감정의 강도는 100%로 표현하세요.",
		},
		{
			name:            "zero intensity",
			emotion:         "shy",
			intensity:       0,
			wantInstruction: "부끄럽고 수줍은 감정으로",
			wantIntensity:   "감정의 강도는 0%로 표현하세요.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEmotionPrompt(tt.emotion, "데이트 중", tt.intensity)
			if !strings.Contains(got, "상황: 데이트 중") {
				t.Errorf("situation missing: %q", got)
			}
			if !strings.Contains(got, tt.wantInstruction) {
				t.Errorf("instruction %q missing: %q", tt.wantInstruction, got)
			}
			if !strings.Contains(got, tt.wantIntensity) {
				t.Errorf("intensity line %q missing: %q", tt.wantIntensity, got)
			}
		})
	}
}
