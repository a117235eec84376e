package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/logger"
)

type IPostEventPubSub interface {
	Publish(ctx context.Context, event *model.PostEvent) (string, error)
}

// PostEventPubSub fans post lifecycle events out to a Pub/Sub topic. A nil
// client disables the integration.
type PostEventPubSub struct {
	client *pubsub.Client
	topic  string
}

func NewPostEventPubSub(client *pubsub.Client, topic string) IPostEventPubSub {
	return &PostEventPubSub{client: client, topic: topic}
}

func (p *PostEventPubSub) Publish(ctx context.Context, event *model.PostEvent) (string, error) {
	if p.client == nil || p.topic == "" {
		return "", nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	topic := p.client.Topic(p.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		if topic, err = p.client.CreateTopic(ctx, p.topic); err != nil {
			return "", err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return "", err
	}
	logger.GetLogger().WithField("server ID", serverID).Info("Post event published")
	return serverID, nil
}
