package service

import (
	"context"
	"encoding/json"

	"notedeck-be/internal/dto"
	"notedeck-be/internal/pkg/logger"
	"notedeck-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// invalidationConsumer forwards bus invalidations to the websocket hub so
// every session watching the affected note or notebook refetches.
type invalidationConsumer struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewInvalidationConsumer(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) IConsumerService {
	return &invalidationConsumer{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (cs *invalidationConsumer) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *invalidationConsumer) processMessage(msg *message.Message) {
	var payload dto.InvalidationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("InvalidationConsumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed messages would retry forever
		return
	}

	switch payload.Kind {
	case dto.InvalidationStructureUpdated:
		if payload.NotebookId != nil {
			cs.hub.BroadcastRoom(websocket.NotebookRoom(*payload.NotebookId), payload.Kind, payload)
		}
	default:
		if payload.NoteId != nil {
			cs.hub.BroadcastRoom(websocket.NoteRoom(*payload.NoteId), payload.Kind, payload)
		}
	}

	msg.Ack()
}
