package servicebus

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/logger"
)

type IPostEventServiceBus interface {
	Send(ctx context.Context, event *model.PostEvent) error
}

// PostEventServiceBus mirrors post lifecycle events onto an Azure Service Bus
// queue. A nil client disables the integration.
type PostEventServiceBus struct {
	client *azservicebus.Client
	queue  string
}

func NewPostEventServiceBus(client *azservicebus.Client, queue string) IPostEventServiceBus {
	return &PostEventServiceBus{client: client, queue: queue}
}

func (s *PostEventServiceBus) Send(ctx context.Context, event *model.PostEvent) error {
	if s.client == nil || s.queue == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
		}
	}()

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
