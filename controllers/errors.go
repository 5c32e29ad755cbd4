package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

// respondStoreError maps store sentinel errors onto HTTP responses.
// Anything unrecognised is logged and reported as a 500 with failCode.
func respondStoreError(ctx *gin.Context, err error, notFound string, failCode int, failMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, notFound)
	case errors.Is(err, store.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "user not found")
	case errors.Is(err, store.ErrSelfFollow):
		utils.Error(ctx, http.StatusBadRequest, 40013, "users cannot follow themselves")
	case errors.Is(err, store.ErrUsernameTaken):
		utils.Error(ctx, http.StatusConflict, 40901, "username already taken")
	default:
		utils.Sugar.Errorw(failMsg, "path", ctx.FullPath(), "err", err)
		utils.Error(ctx, http.StatusInternalServerError, failCode, failMsg)
	}
}
