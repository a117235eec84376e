package persistence

import (
	"context"
	"time"

	"reddit-sync/domain/model"
	"reddit-sync/domain/repository"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// PublishAuditRepository appends publish attempts to a MongoDB collection.
// A nil client disables auditing without touching the callers.
type PublishAuditRepository struct {
	coll *mongo.Collection
}

func NewPublishAuditRepository(client *mongo.Client, dbName string) repository.IPublishAudit {
	if client == nil {
		return &PublishAuditRepository{}
	}
	return &PublishAuditRepository{coll: client.Database(dbName).Collection("publish_audit")}
}

func (r *PublishAuditRepository) Record(ctx context.Context, audit *model.PublishAudit) error {
	if r.coll == nil {
		return nil
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, audit)
	return err
}
