package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/entity"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"
	"ai-dategame-be/pkg/events"
	pkgNats "ai-dategame-be/pkg/nats"

	"github.com/google/uuid"
)

type ICharacterService interface {
	Create(ctx context.Context, req *dto.CreateCharacterRequest) (*dto.CharacterResponse, error)
	Update(ctx context.Context, req *dto.UpdateCharacterRequest) (*dto.CharacterResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.CharacterResponse, error)
	List(ctx context.Context) ([]*dto.CharacterResponse, error)
}

type characterService struct {
	characterRepository contract.CharacterRepository
	knowledgeService    IKnowledgeService
	publisherService    IPublisherService
	eventPublisher      *pkgNats.Publisher
	log                 logger.ILogger
}

func NewCharacterService(
	characterRepository contract.CharacterRepository,
	knowledgeService IKnowledgeService,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ICharacterService {
	return &characterService{
		characterRepository: characterRepository,
		knowledgeService:    knowledgeService,
		publisherService:    publisherService,
		eventPublisher:      eventPublisher,
		log:                 log,
	}
}

func (s *characterService) Create(ctx context.Context, req *dto.CreateCharacterRequest) (*dto.CharacterResponse, error) {
	character := &entity.Character{
		Id:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Personality:   req.Personality,
		SpeakingStyle: req.SpeakingStyle,
		Age:           req.Age,
		Occupation:    req.Occupation,
		Background:    req.Background,
		Profile:       req.Profile,
		CreatedAt:     time.Now(),
	}

	if err := s.characterRepository.Create(ctx, character); err != nil {
		return nil, err
	}

	s.requestProfileEmbed(ctx, character.Id)
	s.publishEvent(ctx, events.TypeCharacterCreated, character)

	return characterToResponse(character), nil
}

func (s *characterService) Update(ctx context.Context, req *dto.UpdateCharacterRequest) (*dto.CharacterResponse, error) {
	character, err := s.characterRepository.FindById(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, nil
	}

	now := time.Now()
	character.Name = req.Name
	character.Description = req.Description
	character.Personality = req.Personality
	character.SpeakingStyle = req.SpeakingStyle
	character.Age = req.Age
	character.Occupation = req.Occupation
	character.Background = req.Background
	character.Profile = req.Profile
	character.UpdatedAt = &now

	if err := s.characterRepository.Update(ctx, character); err != nil {
		return nil, err
	}

	s.requestProfileEmbed(ctx, character.Id)
	s.publishEvent(ctx, events.TypeCharacterUpdated, character)

	return characterToResponse(character), nil
}

func (s *characterService) Delete(ctx context.Context, id uuid.UUID) error {
	character, err := s.characterRepository.FindById(ctx, id)
	if err != nil {
		return err
	}
	if character == nil {
		return nil
	}

	if err := s.characterRepository.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.knowledgeService.RemoveCharacterKnowledge(ctx, id); err != nil {
		s.log.Warn("character.service", "failed to remove character knowledge", map[string]interface{}{
			"character_id": id,
			"error":        err.Error(),
		})
	}

	s.publishEvent(ctx, events.TypeCharacterDeleted, character)
	return nil
}

func (s *characterService) Show(ctx context.Context, id uuid.UUID) (*dto.CharacterResponse, error) {
	character, err := s.characterRepository.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, nil
	}
	return characterToResponse(character), nil
}

func (s *characterService) List(ctx context.Context) ([]*dto.CharacterResponse, error) {
	characters, err := s.characterRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CharacterResponse, len(characters))
	for i, character := range characters {
		responses[i] = characterToResponse(character)
	}
	return responses, nil
}

// requestProfileEmbed queues the character for profile re-embedding. The
// queue is in-process; a publish failure means the profile stays stale until
// the next update, which is acceptable.
func (s *characterService) requestProfileEmbed(ctx context.Context, characterId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedCharacterMessage{CharacterId: characterId})
	if err != nil {
		s.log.Error("character.service", "failed to marshal embed message", map[string]interface{}{
			"character_id": characterId,
			"error":        err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("character.service", "failed to queue profile embedding", map[string]interface{}{
			"character_id": characterId,
			"error":        err.Error(),
		})
	}
}

func (s *characterService) publishEvent(ctx context.Context, eventType string, character *entity.Character) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"character_id": character.Id,
			"name":         character.Name,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("character.service", "failed to publish character event", map[string]interface{}{
			"event_type":   eventType,
			"character_id": character.Id,
			"error":        err.Error(),
		})
	}
}

func characterToResponse(character *entity.Character) *dto.CharacterResponse {
	return &dto.CharacterResponse{
		Id:            character.Id,
		Name:          character.Name,
		Description:   character.Description,
		Personality:   character.Personality,
		SpeakingStyle: character.SpeakingStyle,
		Age:           character.Age,
		Occupation:    character.Occupation,
		Background:    character.Background,
		Profile:       character.Profile,
		CreatedAt:     character.CreatedAt,
		UpdatedAt:     character.UpdatedAt,
	}
}

// composeCharacterSheet renders a character as the bracketed-section text
// used both as the chat system prompt's character block and as the profile
// document embedded into the knowledge store.
func composeCharacterSheet(character *entity.Character) string {
	var sections []string

	basic := fmt.Sprintf("[기본 정보]\n이름: %s", character.Name)
	if character.Age > 0 {
		basic += fmt.Sprintf("\n나이: %d세", character.Age)
	}
	if character.Occupation != "" {
		basic += fmt.Sprintf("\n직업: %s", character.Occupation)
	}
	sections = append(sections, basic)

	if character.Description != "" {
		sections = append(sections, "[소개]\n"+character.Description)
	}
	if character.Personality != "" {
		sections = append(sections, "[성격]\n"+character.Personality)
	}
	if character.SpeakingStyle != "" {
		sections = append(sections, "[말투]\n"+character.SpeakingStyle)
	}
	if character.Background != "" {
		sections = append(sections, "[배경]\n"+character.Background)
	}

	if len(character.Profile) > 0 {
		var b strings.Builder
		b.WriteString("[추가 정보]")
		for key, value := range character.Profile {
			b.WriteString(fmt.Sprintf("\n%s: %v", key, value))
		}
		sections = append(sections, b.String())
	}

	return strings.Join(sections, "\n\n")
}
