package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-dategame-be/internal/dto"
	"ai-dategame-be/internal/pkg/logger"
	"ai-dategame-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the profile-embed queue: for each message it
// rebuilds the character's profile document and replaces its chunks in the
// knowledge store.
type consumerService struct {
	pubSub              *gochannel.GoChannel
	topicName           string
	characterRepository contract.CharacterRepository
	knowledgeService    IKnowledgeService
	log                 logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	characterRepository contract.CharacterRepository,
	knowledgeService IKnowledgeService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:              pubSub,
		topicName:           topicName,
		characterRepository: characterRepository,
		knowledgeService:    knowledgeService,
		log:                 log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedCharacterMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer.service", "failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads would retry forever
		return
	}

	cs.log.Info("consumer.service", "processing character profile embedding", map[string]interface{}{
		"character_id": payload.CharacterId,
	})

	character, err := cs.characterRepository.FindById(ctx, payload.CharacterId)
	if err != nil {
		cs.log.Error("consumer.service", "failed to load character", map[string]interface{}{
			"character_id": payload.CharacterId,
			"error":        err.Error(),
		})
		msg.Nack()
		return
	}
	if character == nil {
		// deleted between publish and consume
		cs.log.Warn("consumer.service", "character not found, dropping message", map[string]interface{}{
			"character_id": payload.CharacterId,
		})
		msg.Ack()
		return
	}

	sourceFile := fmt.Sprintf("%s_profile", character.Id)
	processed, err := cs.knowledgeService.IngestText(ctx, sourceFile, composeCharacterSheet(character))
	if err != nil {
		cs.log.Error("consumer.service", "failed to ingest character profile", map[string]interface{}{
			"character_id": payload.CharacterId,
			"error":        err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer.service", "character profile embedded", map[string]interface{}{
		"character_id": payload.CharacterId,
		"chunks":       processed,
	})
	msg.Ack()
}
