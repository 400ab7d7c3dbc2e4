package pubsub

import (
	"context"
	"encoding/json"
	"sync"

	"cloud.google.com/go/pubsub"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
)

// EventPublisher publishes domain events to one topic, creating it on first use.
type EventPublisher struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewEventPublisher(client *pubsub.Client, topicName string) *EventPublisher {
	return &EventPublisher{client: client, topicName: topicName}
}

func (p *EventPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}
	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		topic, err = p.client.CreateTopic(ctx, p.topicName)
		if err != nil {
			return nil, err
		}
	}
	p.topic = topic
	return topic, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event model.Event) error {
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type":    event.Type,
			"mall_id": event.MallID,
		},
	}
	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithFields(map[string]interface{}{"server_id": serverID, "type": event.Type}).Info("Message published")
	return nil
}

// Close flushes pending messages.
func (p *EventPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
	}
}
