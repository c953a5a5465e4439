package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type memCharacterRepo struct {
	characters map[uuid.UUID]*entity.Character
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{characters: map[uuid.UUID]*entity.Character{}}
}

func (m *memCharacterRepo) Create(ctx context.Context, character *entity.Character) error {
	m.characters[character.Id] = character
	return nil
}

func (m *memCharacterRepo) Update(ctx context.Context, character *entity.Character) error {
	m.characters[character.Id] = character
	return nil
}

func (m *memCharacterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.characters, id)
	return nil
}

func (m *memCharacterRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	return m.characters[id], nil
}

func (m *memCharacterRepo) FindAll(ctx context.Context) ([]*entity.Character, error) {
	var all []*entity.Character
	for _, character := range m.characters {
		all = append(all, character)
	}
	return all, nil
}

type capturingPublisher struct {
	payloads [][]byte
}

func (c *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	c.payloads = append(c.payloads, payload)
	return nil
}

func newCharacterFixture() (ICharacterService, *memCharacterRepo, *memKnowledgeRepo, *capturingPublisher) {
	characterRepo := newMemCharacterRepo()
	knowledgeRepo := newMemKnowledgeRepo()
	publisher := &capturingPublisher{}
	knowledgeService := NewKnowledgeService(knowledgeRepo, &countingEmbedder{}, nil, 500, logger.NewNopLogger())
	svc := NewCharacterService(characterRepo, knowledgeService, publisher, nil, logger.NewNopLogger())
	return svc, characterRepo, knowledgeRepo, publisher
}

func TestCharacterCreateQueuesProfileEmbed(t *testing.T) {
	svc, repo, _, publisher := newCharacterFixture()

	res, err := svc.Create(context.Background(), &dto.CreateCharacterRequest{
		Name:        "유나",
		Age:         24,
		Personality: "밝고 명랑함",
	})

	assert.NoError(t, err)
	assert.Contains(t, repo.characters, res.Id)
	assert.Len(t, publisher.payloads, 1)

	var msg dto.PublishEmbedCharacterMessage
	assert.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, res.Id, msg.CharacterId)
}

func TestCharacterUpdate(t *testing.T) {
	svc, repo, _, publisher := newCharacterFixture()

	created, err := svc.Create(context.Background(), &dto.CreateCharacterRequest{Name: "유나"})
	assert.NoError(t, err)

	updated, err := svc.Update(context.Background(), &dto.UpdateCharacterRequest{
		Id:   created.Id,
		Name: "유나",
		Age:  25,
	})

	assert.NoError(t, err)
	assert.Equal(t, 25, updated.Age)
	assert.NotNil(t, repo.characters[created.Id].UpdatedAt)
	assert.Len(t, publisher.payloads, 2, "update re-queues the profile embed")
}

func TestCharacterUpdateNotFound(t *testing.T) {
	svc, _, _, _ := newCharacterFixture()

	res, err := svc.Update(context.Background(), &dto.UpdateCharacterRequest{
		Id:   uuid.New(),
		Name: "없는 캐릭터",
	})

	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestCharacterDeleteRemovesKnowledge(t *testing.T) {
	svc, repo, knowledgeRepo, _ := newCharacterFixture()

	created, err := svc.Create(context.Background(), &dto.CreateCharacterRequest{Name: "유나"})
	assert.NoError(t, err)

	knowledgeRepo.chunks[created.Id.String()+"_profile"] = []*entity.KnowledgeChunk{{}}
	knowledgeRepo.chunks["other_profile"] = []*entity.KnowledgeChunk{{}}

	assert.NoError(t, svc.Delete(context.Background(), created.Id))
	assert.NotContains(t, repo.characters, created.Id)
	assert.NotContains(t, knowledgeRepo.chunks, created.Id.String()+"_profile")
	assert.Contains(t, knowledgeRepo.chunks, "other_profile")
}

func TestComposeCharacterSheet(t *testing.T) {
	sheet := composeCharacterSheet(&entity.Character{
		Name:          "유나",
		Age:           24,
		Occupation:    "바리스타",
		Description:   "동네 카페에서 일하는 친절한 바리스타",
		Personality:   "밝고 명랑함",
		SpeakingStyle: "존댓말을 쓰지만 친근함",
		Background:    "서울에서 태어나 자랐다",
		Profile:       map[string]interface{}{"좋아하는 음료": "바닐라 라떼"},
	})

	assert.Contains(t, sheet, "[기본 정보]\n이름: 유나\n나이: 24세\n직업: 바리스타")
	assert.Contains(t, sheet, "[성격]\n밝고 명랑함")
	assert.Contains(t, sheet, "[말투]\n존댓말을 쓰지만 친근함")
	assert.Contains(t, sheet, "[배경]\n서울에서 태어나 자랐다")
	assert.Contains(t, sheet, "좋아하는 음료: 바닐라 라떼")
}

func TestComposeCharacterSheetSkipsEmptySections(t *testing.T) {
	sheet := composeCharacterSheet(&entity.Character{Name: "유나"})

	assert.Contains(t, sheet, "[기본 정보]\n이름: 유나")
	assert.NotContains(t, sheet, "[성격]")
	assert.NotContains(t, sheet, "[배경]")
	assert.NotContains(t, sheet, "나이:")
}
