package usecase

import (
	"context"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/logger"
	"reddit-sync/infrastructure/pubsub"
	"reddit-sync/infrastructure/realtime"
	"reddit-sync/infrastructure/servicebus"
)

// IPostNotifier receives a lifecycle event after every publish attempt.
type IPostNotifier interface {
	NotifyPostStatus(ctx context.Context, event *model.PostEvent)
}

// PostEventFanout pushes an event to the SSE hub, Pub/Sub and Service Bus.
// Every leg is best effort; a broken broker never fails a publish.
type PostEventFanout struct {
	hub        *realtime.Hub
	pubSub     pubsub.IPostEventPubSub
	serviceBus servicebus.IPostEventServiceBus
}

func NewPostEventFanout(hub *realtime.Hub, ps pubsub.IPostEventPubSub, sb servicebus.IPostEventServiceBus) IPostNotifier {
	return &PostEventFanout{hub: hub, pubSub: ps, serviceBus: sb}
}

func (f *PostEventFanout) NotifyPostStatus(ctx context.Context, event *model.PostEvent) {
	if f.hub != nil {
		f.hub.BroadcastPostStatus(event)
	}
	if f.pubSub != nil {
		if _, err := f.pubSub.Publish(ctx, event); err != nil {
			logger.GetLogger().WithField("error", err).Warn("post event pubsub publish failed")
		}
	}
	if f.serviceBus != nil {
		if err := f.serviceBus.Send(ctx, event); err != nil {
			logger.GetLogger().WithField("error", err).Warn("post event service bus send failed")
		}
	}
}
