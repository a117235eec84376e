package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reddit-sync/domain/dto"
	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/logger"
	"reddit-sync/usecase"
)

type IPostHandler interface {
	Create(ctx *gin.Context)
	List(ctx *gin.Context)
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Publish(ctx *gin.Context)
	Retry(ctx *gin.Context)
	Schedule(ctx *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
}

func NewPostHandler(postUsecase usecase.IPostUsecase) IPostHandler {
	return &PostHandler{postUsecase: postUsecase}
}

func postID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return 0, false
	}
	return id, true
}

// Create returns 201 on success, 400 on validation failure and 207 when the
// post was created but its immediate publish attempt failed.
func (h *PostHandler) Create(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.postUsecase.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		if post != nil {
			// The post exists; only the publish attempt went wrong.
			ctx.JSON(http.StatusMultiStatus, gin.H{"post": post, "error": err.Error()})
			return
		}
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"user_id": userID,
		}).Warn("create post rejected")
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"post": post})
}

// List serves /api/posts plus the status-filtered variants; the filter comes
// in as a route suffix or ?status= query.
func (h *PostHandler) List(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	status := ctx.Param("status")
	if status == "" {
		status = ctx.Query("status")
	}
	switch status {
	case "", model.StatusPending, model.StatusScheduled, model.StatusPosted, model.StatusFailed:
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	posts, err := h.postUsecase.List(ctx.Request.Context(), userID, status)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	ctx.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Get(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := postID(ctx)
	if !ok {
		return
	}
	post, err := h.postUsecase.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Update(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := postID(ctx)
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	post, err := h.postUsecase.Update(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		ctx.JSON(statusFor(err), errorBody(err, post))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := postID(ctx)
	if !ok {
		return
	}
	if err := h.postUsecase.Delete(ctx.Request.Context(), userID, id); err != nil {
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *PostHandler) Publish(ctx *gin.Context) {
	h.attempt(ctx)
}

// Retry re-enters the publish path; the engine treats it identically to
// publish, optionally with a different credential.
func (h *PostHandler) Retry(ctx *gin.Context) {
	h.attempt(ctx)
}

func (h *PostHandler) attempt(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := postID(ctx)
	if !ok {
		return
	}
	var req dto.PublishPostRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	post, err := h.postUsecase.Publish(ctx.Request.Context(), userID, id, req.CredentialID)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"post_id": id,
			"user_id": userID,
		}).Warn("publish attempt failed")
		ctx.JSON(statusFor(err), errorBody(err, post))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Schedule(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := postID(ctx)
	if !ok {
		return
	}
	var req dto.SchedulePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	post, err := h.postUsecase.Schedule(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		ctx.JSON(statusFor(err), errorBody(err, post))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"post": post})
}
