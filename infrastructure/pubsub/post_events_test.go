package pubsub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/pubsub"
)

func TestNewPostEventPubSub(t *testing.T) {
	// Without a Pub/Sub client the publisher degrades to a no-op.
	events := pubsub.NewPostEventPubSub(nil, "post-events")
	assert.NotNil(t, events)

	id, err := events.Publish(context.Background(), &model.PostEvent{PostID: 1, UserID: "user-1"})
	assert.NoError(t, err)
	assert.Empty(t, id)
}
