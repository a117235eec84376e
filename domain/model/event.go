package model

import "time"

// PostEvent is the lifecycle notification fanned out after a publish attempt
// (SSE hub, Pub/Sub, Service Bus). It intentionally carries only what a
// dashboard needs to re-render a row.
type PostEvent struct {
	PostID       int64     `json:"post_id"`
	UserID       string    `json:"user_id"`
	Subreddit    string    `json:"subreddit"`
	Status       string    `json:"status"`
	RedditPostID string    `json:"reddit_post_id,omitempty"`
	RedditURL    string    `json:"reddit_url,omitempty"`
	Error        *string   `json:"error,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PublishAudit is an append-only record of every publish attempt, kept in
// MongoDB for offline inspection. Best effort; never blocks the engine.
type PublishAudit struct {
	PostID       int64     `bson:"post_id"`
	UserID       string    `bson:"user_id"`
	CredentialID int64     `bson:"credential_id"`
	Subreddit    string    `bson:"subreddit"`
	Status       string    `bson:"status"`
	RedditPostID string    `bson:"reddit_post_id,omitempty"`
	ErrorMessage string    `bson:"error_message,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}
