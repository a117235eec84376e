package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
)

// NewPubSub creates a Google Cloud Pub/Sub client. Credentials come from the
// ambient environment (GOOGLE_APPLICATION_CREDENTIALS or workload identity).
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, nil
	}
	return pubsub.NewClient(ctx, projectID)
}
