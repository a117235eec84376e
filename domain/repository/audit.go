package repository

import (
	"context"

	"reddit-sync/domain/model"
)

// IPublishAudit appends publish attempt records. Implementations must be
// safe to call with best-effort semantics; the engine ignores their errors.
type IPublishAudit interface {
	Record(ctx context.Context, audit *model.PublishAudit) error
}
