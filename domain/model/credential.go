package model

import "time"

// Credential binds a user to one linked Reddit account: the refresh token
// obtained through OAuth plus the app variant it was issued against. A
// credential is permanently bound to its app variant.
type Credential struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	RedditUsername string    `json:"reddit_username"`
	RedditID       string    `json:"reddit_id,omitempty"`
	AppVariant     string    `json:"app_variant"`
	RefreshToken   string    `json:"-"`
	Scopes         string    `json:"scopes"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LinkChallengeTTL is the validity window of an OAuth state token. Challenges
// older than this are rejected and lazily garbage collected.
const LinkChallengeTTL = 10 * time.Minute

// LinkChallenge is a short-lived OAuth state token proving a user-initiated
// linking flow. It is consumed exactly once.
type LinkChallenge struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	State      string    `json:"state"`
	AppVariant string    `json:"app_variant"`
	CreatedAt  time.Time `json:"created_at"`
}
