package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reddit-sync/domain/model"
	"reddit-sync/infrastructure/logger"
	"reddit-sync/usecase"
)

type ICredentialHandler interface {
	List(ctx *gin.Context)
	Test(ctx *gin.Context)
	Deactivate(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type CredentialHandler struct {
	credentialUsecase usecase.ICredentialUsecase
}

func NewCredentialHandler(credentialUsecase usecase.ICredentialUsecase) ICredentialHandler {
	return &CredentialHandler{credentialUsecase: credentialUsecase}
}

func credentialID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return 0, false
	}
	return id, true
}

func (h *CredentialHandler) List(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	creds, err := h.credentialUsecase.List(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if creds == nil {
		creds = []*model.Credential{}
	}
	ctx.JSON(http.StatusOK, gin.H{"accounts": creds})
}

// Test round-trips the stored refresh token against the platform and reports
// the identity it resolves to.
func (h *CredentialHandler) Test(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := credentialID(ctx)
	if !ok {
		return
	}
	identity, err := h.credentialUsecase.Test(ctx.Request.Context(), userID, id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":         err,
			"credential_id": id,
		}).Warn("credential test failed")
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "identity": identity})
}

func (h *CredentialHandler) Deactivate(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := credentialID(ctx)
	if !ok {
		return
	}
	if err := h.credentialUsecase.Deactivate(ctx.Request.Context(), userID, id); err != nil {
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *CredentialHandler) Delete(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	id, ok := credentialID(ctx)
	if !ok {
		return
	}
	if err := h.credentialUsecase.Delete(ctx.Request.Context(), userID, id); err != nil {
		ctx.JSON(statusFor(err), errorBody(err, nil))
		return
	}
	ctx.Status(http.StatusNoContent)
}
