package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reddit-sync/domain/dto"
	"reddit-sync/infrastructure/logger"
	"reddit-sync/usecase"
)

type IOAuthHandler interface {
	Apps(ctx *gin.Context)
	Connect(ctx *gin.Context)
	Callback(ctx *gin.Context)
}

type OAuthHandler struct {
	linkUsecase usecase.ILinkUsecase
}

func NewOAuthHandler(linkUsecase usecase.ILinkUsecase) IOAuthHandler {
	return &OAuthHandler{linkUsecase: linkUsecase}
}

// Apps lists the registered app variants so the frontend can offer a picker.
func (h *OAuthHandler) Apps(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"apps": h.linkUsecase.Apps()})
}

func (h *OAuthHandler) Connect(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	var req dto.ConnectRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.AppVariant == "" {
		req.AppVariant = ctx.Query("app")
	}

	resp, err := h.linkUsecase.BeginLink(ctx.Request.Context(), userID, req.AppVariant)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":       err,
			"user_id":     userID,
			"app_variant": req.AppVariant,
		}).Warn("starting oauth link failed")
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Callback finishes the linking flow. Reddit redirects the browser here with
// code and state as query params; the frontend may also relay them as JSON.
func (h *OAuthHandler) Callback(ctx *gin.Context) {
	var req dto.CallbackRequest
	if ctx.Request.Method == http.MethodPost && ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	} else {
		req.Code = ctx.Query("code")
		req.State = ctx.Query("state")
	}
	if errParam := ctx.Query("error"); errParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "authorization denied: " + errParam})
		return
	}
	if req.Code == "" || req.State == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "code and state are required"})
		return
	}

	cred, err := h.linkUsecase.CompleteLink(ctx.Request.Context(), req.Code, req.State)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("completing oauth link failed")
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"credential": cred})
}
