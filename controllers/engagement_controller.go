package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/nexus/middleware"
	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

// EngagementController persists likes and shares. Likes are idempotent per
// (entity, user); shares always count.
type EngagementController struct {
	store   *store.Store
	metrics *middleware.Metrics
}

func NewEngagementController(st *store.Store, m *middleware.Metrics) *EngagementController {
	return &EngagementController{store: st, metrics: m}
}

// actorID reads userId from the query string or, failing that, the JSON body.
// DELETE requests commonly arrive without a body.
func actorID(ctx *gin.Context) (string, bool) {
	if v := strings.TrimSpace(ctx.Query("userId")); v != "" {
		return v, true
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return "", false
	}
	v := strings.TrimSpace(req.UserID)
	return v, v != ""
}

// LikePost handles POST /posts/:id/like.
func (e *EngagementController) LikePost(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, "userId is required")
		return
	}
	postID := ctx.Param("id")
	post, err := e.store.LikePost(ctx.Request.Context(), postID, userID)
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50030, "failed to like post")
		return
	}
	utils.InvalidateFeed(postID)
	e.metrics.Engaged("like")
	utils.Success(ctx, gin.H{"post": post, "liked": true})
}

// UnlikePost handles DELETE /posts/:id/like.
func (e *EngagementController) UnlikePost(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "userId is required")
		return
	}
	postID := ctx.Param("id")
	post, err := e.store.UnlikePost(ctx.Request.Context(), postID, userID)
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50031, "failed to unlike post")
		return
	}
	utils.InvalidateFeed(postID)
	e.metrics.Engaged("unlike")
	utils.Success(ctx, gin.H{"post": post, "liked": false})
}

// SharePost handles POST /posts/:id/share. The body is optional.
func (e *EngagementController) SharePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	post, err := e.store.SharePost(ctx.Request.Context(), postID)
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50032, "failed to share post")
		return
	}
	utils.InvalidateFeed(postID)
	e.metrics.Engaged("share")
	utils.Success(ctx, post)
}

// LikeComment handles POST /comments/:id/like.
func (e *EngagementController) LikeComment(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40032, "userId is required")
		return
	}
	comment, err := e.store.LikeComment(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		respondStoreError(ctx, err, "comment not found", 50033, "failed to like comment")
		return
	}
	e.metrics.Engaged("comment_like")
	utils.Success(ctx, gin.H{"comment": comment, "liked": true})
}

// UnlikeComment handles DELETE /comments/:id/like.
func (e *EngagementController) UnlikeComment(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40033, "userId is required")
		return
	}
	comment, err := e.store.UnlikeComment(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		respondStoreError(ctx, err, "comment not found", 50034, "failed to unlike comment")
		return
	}
	e.metrics.Engaged("comment_unlike")
	utils.Success(ctx, gin.H{"comment": comment, "liked": false})
}
