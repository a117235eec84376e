package dto

import "time"

// CreatePostRequest is the body of POST /api/posts. ScheduledTime and
// PostNow are mutually exclusive; omitting both means post now.
type CreatePostRequest struct {
	Title         string     `json:"title" binding:"required"`
	Content       string     `json:"content"`
	Subreddit     string     `json:"subreddit" binding:"required"`
	CredentialID  *int64     `json:"credential_id"`
	PostNow       *bool      `json:"post_now"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

// UpdatePostRequest is the body of PUT /api/posts/:id.
type UpdatePostRequest struct {
	Title         string     `json:"title" binding:"required"`
	Content       string     `json:"content"`
	Subreddit     string     `json:"subreddit" binding:"required"`
	CredentialID  *int64     `json:"credential_id"`
	PostNow       *bool      `json:"post_now"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

// PublishPostRequest optionally overrides the credential used for the
// attempt (publish and retry endpoints).
type PublishPostRequest struct {
	CredentialID *int64 `json:"credential_id"`
}

// SchedulePostRequest is the body of POST /api/posts/:id/schedule.
type SchedulePostRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	CredentialID  *int64    `json:"credential_id"`
}
