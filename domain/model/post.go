package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Post status values. A post starts out pending, may be scheduled for a
// future time, and ends up posted or failed after a publish attempt.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusPosted    = "posted"
	StatusFailed    = "failed"
)

const (
	TitleMaxLen   = 300
	ContentMaxLen = 40000
)

var subredditRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// Post is a submission destined for Reddit. CredentialID references the
// linked account that will (or did) post it; the reference is cleared, not
// cascaded, when the account is removed.
type Post struct {
	ID            int64      `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Subreddit     string     `json:"subreddit"`
	CredentialID  *int64     `json:"credential_id,omitempty"`
	PostNow       bool       `json:"post_now"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	Status        string     `json:"status"`
	InFlight      bool       `json:"-"`
	RedditPostID  string     `json:"reddit_post_id,omitempty"`
	RedditURL     string     `json:"reddit_url,omitempty"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Normalize trims the title and canonicalizes the subreddit: lower-cased,
// trimmed, with a leading "r/" stripped. Call before Validate.
func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Subreddit = strings.ToLower(strings.TrimSpace(p.Subreddit))
	p.Subreddit = strings.TrimPrefix(p.Subreddit, "r/")
}

// Validate checks field and scheduling invariants against now. It never
// touches storage; callers run it explicitly before every persist.
func (p *Post) Validate(now time.Time) error {
	errs := ValidationError{}

	// Length limits count characters, not bytes.
	if p.Title == "" {
		errs["title"] = "title is required"
	} else if utf8.RuneCountInString(p.Title) > TitleMaxLen {
		errs["title"] = "title must be 300 characters or less"
	}
	if utf8.RuneCountInString(p.Content) > ContentMaxLen {
		errs["content"] = "content must be 40000 characters or less"
	}
	if p.Subreddit == "" {
		errs["subreddit"] = "subreddit is required"
	} else if !subredditRe.MatchString(p.Subreddit) {
		errs["subreddit"] = "invalid subreddit name format"
	}

	// Until a post is posted, exactly one of {post now, future scheduled
	// time} must hold. A posted post is normalized to post_now=true with the
	// scheduled time cleared.
	if p.Status != StatusPosted {
		if p.PostNow && p.ScheduledTime != nil {
			errs["scheduled_time"] = "cannot set scheduled time when posting now"
		}
		if !p.PostNow && p.ScheduledTime == nil {
			errs["scheduled_time"] = "scheduled time is required when not posting now"
		}
		if p.ScheduledTime != nil && !p.ScheduledTime.After(now) {
			errs["scheduled_time"] = "scheduled time must be in the future"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Schedule moves the post into the scheduled state. Only pending and failed
// posts can be scheduled.
func (p *Post) Schedule(t time.Time, now time.Time) error {
	if p.Status == StatusPosted {
		return ErrAlreadyPublished
	}
	if !p.CanSchedule() {
		return ValidationError{"status": "only pending and failed posts can be scheduled"}
	}
	if !t.After(now) {
		return ErrInvalidScheduleTime
	}
	p.ScheduledTime = &t
	p.PostNow = false
	p.Status = StatusScheduled
	return nil
}

// MarkPosted records a successful submission. The scheduling fields are
// normalized so the exclusivity invariant keeps holding for posted posts.
func (p *Post) MarkPosted(redditPostID, redditURL string) {
	p.Status = StatusPosted
	p.RedditPostID = redditPostID
	p.RedditURL = redditURL
	p.PostNow = true
	p.ScheduledTime = nil
	p.ErrorMessage = nil
	p.InFlight = false
}

// MarkFailed records a failed publish attempt with the platform's reason.
func (p *Post) MarkFailed(reason string) {
	p.Status = StatusFailed
	if reason != "" {
		p.ErrorMessage = &reason
	}
	p.InFlight = false
}

// CanPublish reports whether a publish attempt may be started. Posted posts
// are terminal; to post again, create a new post.
func (p *Post) CanPublish() bool {
	return p.Status == StatusPending || p.Status == StatusFailed || p.Status == StatusScheduled
}

// CanSchedule reports whether the post may be scheduled.
func (p *Post) CanSchedule() bool {
	return p.Status == StatusPending || p.Status == StatusFailed
}

// IsDue reports whether a scheduled post should be picked up by the sweep.
func (p *Post) IsDue(now time.Time) bool {
	return p.Status == StatusScheduled && p.ScheduledTime != nil && !p.ScheduledTime.After(now)
}
