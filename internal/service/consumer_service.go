package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"legal-copilot-be/internal/dto"
	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/repository/unitofwork"
	"legal-copilot-be/pkg/events"
	pktNats "legal-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the analytics topic: each message becomes a
// persisted analytics row plus an audit event on NATS. Failures on the
// consumer never surface to the request that produced the message.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		natsPub:    natsPub,
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
	var payload dto.PublishAnalyticsMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal analytics message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	event := &entity.AnalyticsEvent{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		EventType: payload.EventType,
		Payload:   payload.Payload,
		CreatedAt: time.Now(),
	}

	if err := uow.AnalyticsEventRepository().Create(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to persist analytics event %s: %v", payload.EventType, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	if cs.natsPub != nil {
		auditEvent := events.BaseEvent{
			Type:       payload.EventType,
			Data:       payload.Payload,
			OccurredAt: event.CreatedAt,
		}
		if err := cs.natsPub.Publish(ctx, auditEvent); err != nil {
			// Audit delivery is best-effort; the row is already persisted.
			log.Printf("[WARN] Failed to publish audit event %s: %v", payload.EventType, err)
		}
	}

	msg.Ack()
}
