package servicebus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/servicebus"
)

func TestNewPostEventServiceBus(t *testing.T) {
	// Without a Service Bus client the sender degrades to a no-op.
	sender := servicebus.NewPostEventServiceBus(nil, "post-events")
	assert.NotNil(t, sender)

	err := sender.Send(context.Background(), &model.PostEvent{PostID: 1, UserID: "user-1"})
	assert.NoError(t, err)
}
