package servicebus

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
)

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// EventPublisher sends domain events to a Service Bus queue.
type EventPublisher struct {
	sender messageSender
	queue  string
}

func NewEventPublisher(client *azservicebus.Client, queue string) (*EventPublisher, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, err
	}
	return &EventPublisher{sender: sender, queue: queue}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event model.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	contentType := "application/json"
	messageID := event.ID
	subject := event.Type
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		MessageID:   &messageID,
		Subject:     &subject,
		ApplicationProperties: map[string]interface{}{
			"mall_id": event.MallID,
		},
	}
	if err := p.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (p *EventPublisher) Close(ctx context.Context) {
	if err := p.sender.Close(ctx); err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while closing sender.")
	}
}
