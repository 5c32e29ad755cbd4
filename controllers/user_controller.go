package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/nexus/middleware"
	"github.com/cppla/nexus/models"
	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

// UserController lists and registers users.
type UserController struct {
	store   *store.Store
	metrics *middleware.Metrics
}

func NewUserController(st *store.Store, m *middleware.Metrics) *UserController {
	return &UserController{store: st, metrics: m}
}

// ListUsers returns every user, newest first.
func (u *UserController) ListUsers(ctx *gin.Context) {
	users, err := u.store.ListUsers(ctx.Request.Context())
	if err != nil {
		respondStoreError(ctx, err, "user not found", 50010, "failed to list users")
		return
	}
	utils.Success(ctx, users)
}

// CreateUser registers a user. Name falls back to the username when omitted.
func (u *UserController) CreateUser(ctx *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required,max=64"`
		Name      string `json:"name" binding:"max=128"`
		AvatarURL string `json:"avatarUrl" binding:"max=512"`
		Bio       string `json:"bio" binding:"max=512"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || strings.ContainsAny(username, " \t\r\n") {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid username")
		return
	}
	name := utils.Sanitize(req.Name)
	if name == "" {
		name = username
	}

	user := models.User{
		Username:  username,
		Name:      name,
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Bio:       utils.Sanitize(req.Bio),
	}
	if err := u.store.CreateUser(ctx.Request.Context(), &user); err != nil {
		respondStoreError(ctx, err, "user not found", 50011, "failed to create user")
		return
	}
	utils.Created(ctx, user)
}

// Follow handles POST /users/:id/follow; userId names the follower.
func (u *UserController) Follow(ctx *gin.Context) {
	followerID, ok := actorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40012, "userId is required")
		return
	}
	user, err := u.store.Follow(ctx.Request.Context(), ctx.Param("id"), followerID)
	if err != nil {
		respondStoreError(ctx, err, "user not found", 50012, "failed to follow user")
		return
	}
	u.metrics.Engaged("follow")
	utils.Success(ctx, gin.H{"user": user, "following": true})
}

// Unfollow handles DELETE /users/:id/follow.
func (u *UserController) Unfollow(ctx *gin.Context) {
	followerID, ok := actorID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40012, "userId is required")
		return
	}
	user, err := u.store.Unfollow(ctx.Request.Context(), ctx.Param("id"), followerID)
	if err != nil {
		respondStoreError(ctx, err, "user not found", 50013, "failed to unfollow user")
		return
	}
	u.metrics.Engaged("unfollow")
	utils.Success(ctx, gin.H{"user": user, "following": false})
}

// IsFollowing handles GET /users/:id/follow?userId=.
func (u *UserController) IsFollowing(ctx *gin.Context) {
	followerID := strings.TrimSpace(ctx.Query("userId"))
	if followerID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "userId is required")
		return
	}
	following, err := u.store.IsFollowing(ctx.Request.Context(), ctx.Param("id"), followerID)
	if err != nil {
		respondStoreError(ctx, err, "user not found", 50014, "failed to check follow")
		return
	}
	utils.Success(ctx, gin.H{"following": following})
}
