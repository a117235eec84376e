package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared across usecases and repositories. Handlers map these
// onto HTTP status codes; the publication engine converts platform failures
// into a PublishResult instead of returning them.
var (
	ErrNotFound              = errors.New("not found")
	ErrCredentialInactive    = errors.New("credential is inactive")
	ErrNoCredentialAvailable = errors.New("no reddit account available for posting")
	ErrAlreadyPublished      = errors.New("post is already published")
	ErrAlreadyInFlight       = errors.New("a publish attempt is already in flight for this post")
	ErrInvalidScheduleTime   = errors.New("scheduled time must be in the future")
	ErrInvalidOrExpiredState = errors.New("invalid or expired state")
	ErrAppNotConfigured      = errors.New("reddit app is not configured")
	ErrAuthorizationFailed   = errors.New("authorization failed")
	ErrIdentityFetchFailed   = errors.New("could not fetch reddit user info")
)

// ValidationError collects per-field messages, mirroring how the API reports
// bad input: one entry per offending field.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k]))
	}
	return strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
