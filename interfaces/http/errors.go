package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reddit-sync/domain/model"
)

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyPublished),
		errors.Is(err, model.ErrAlreadyInFlight):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidScheduleTime),
		errors.Is(err, model.ErrCredentialInactive),
		errors.Is(err, model.ErrNoCredentialAvailable),
		errors.Is(err, model.ErrInvalidOrExpiredState),
		errors.Is(err, model.ErrAuthorizationFailed),
		errors.Is(err, model.ErrAppNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrIdentityFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the error payload. Validation errors are reported per
// field; post-affecting errors embed the current post state when one exists,
// so the client can tell "created but failed" from "rejected outright".
func errorBody(err error, post *model.Post) gin.H {
	body := gin.H{"error": err.Error()}
	var verr model.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr
	}
	if post != nil {
		body["post"] = post
	}
	return body
}
