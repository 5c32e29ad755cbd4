package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cppla/nexus/config"
	"github.com/cppla/nexus/middleware"
	"github.com/cppla/nexus/models"
	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

// PostController serves the feed: post listing, creation, detail and comments.
type PostController struct {
	store   *store.Store
	cfg     config.AppConfig
	metrics *middleware.Metrics
}

// NewPostController creates a new PostController instance.
func NewPostController(st *store.Store, cfg config.AppConfig, m *middleware.Metrics) *PostController {
	return &PostController{store: st, cfg: cfg, metrics: m}
}

// ListPosts returns one newest-first page of the feed as {items, page, limit, total}.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, limit := p.pagination(ctx)

	cacheKey := fmt.Sprintf("%spage=%d:limit=%d", utils.CachePostsListPrefix, page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	res, err := p.store.ListPosts(ctx.Request.Context(), page, limit)
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50021, "failed to list posts")
		return
	}
	utils.CacheSetJSON(cacheKey, res, 0)
	utils.Success(ctx, res)
}

// ListUserPosts returns one page of a single author's posts.
func (p *PostController) ListUserPosts(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("id"))
	page, limit := p.pagination(ctx)

	cacheKey := fmt.Sprintf("%s%s:posts:page=%d:limit=%d", utils.CacheUserPostsPrefix, userID, page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	if _, err := p.store.GetUser(ctx.Request.Context(), userID); err != nil {
		respondStoreError(ctx, err, "user not found", 50060, "failed to load user")
		return
	}
	res, err := p.store.ListPostsByAuthor(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		respondStoreError(ctx, err, "user not found", 50061, "failed to list user posts")
		return
	}
	utils.CacheSetJSON(cacheKey, res, 0)
	utils.Success(ctx, res)
}

// CreatePost stores a new post and returns it with 201.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		AuthorID string `json:"authorId" binding:"required"`
		Content  string `json:"content" binding:"required,maxrunes=280"`
		ImageURL string `json:"imageUrl" binding:"max=1024"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > models.MaxContentRunes {
		utils.Error(ctx, http.StatusBadRequest, 40024, "content is too long")
		return
	}

	post := models.Post{
		AuthorID: strings.TrimSpace(req.AuthorID),
		Content:  content,
		ImageURL: strings.TrimSpace(req.ImageURL),
	}
	if err := p.store.CreatePost(ctx.Request.Context(), &post); err != nil {
		respondStoreError(ctx, err, "post not found", 50020, "failed to create post")
		return
	}

	utils.InvalidateFeed("")
	p.metrics.Engaged("post")
	utils.Created(ctx, post)
}

// GetPost returns a single post with its author.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes(utils.CachePostDetailPrefix + postID); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	post, err := p.store.GetPost(ctx.Request.Context(), postID)
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50023, "failed to load post")
		return
	}
	utils.CacheSetJSON(utils.CachePostDetailPrefix+postID, post, 0)
	utils.Success(ctx, post)
}

// ListComments returns a post's comments, newest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	comments, err := p.store.ListComments(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50024, "failed to list comments")
		return
	}
	utils.Success(ctx, comments)
}

// CreateComment adds a comment and bumps the post's commentsCount.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		AuthorID string `json:"authorId" binding:"required"`
		Content  string `json:"content" binding:"required,maxrunes=280"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > models.MaxContentRunes {
		utils.Error(ctx, http.StatusBadRequest, 40025, "content is too long")
		return
	}

	postID := ctx.Param("id")
	comment := models.Comment{
		PostID:   postID,
		AuthorID: strings.TrimSpace(req.AuthorID),
		Content:  content,
	}
	if err := p.store.CreateComment(ctx.Request.Context(), &comment); err != nil {
		respondStoreError(ctx, err, "post not found", 50025, "failed to create comment")
		return
	}

	utils.InvalidateFeed(postID)
	p.metrics.Engaged("comment")
	utils.Created(ctx, comment)
}

// Search matches users and posts by case-insensitive substring.
func (p *PostController) Search(ctx *gin.Context) {
	limit := 20
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 {
		limit = min(l, p.cfg.MaxPageSize)
	}
	users, posts, err := p.store.Search(ctx.Request.Context(), ctx.Query("q"), limit)
	if err != nil {
		respondStoreError(ctx, err, "not found", 50029, "failed to search")
		return
	}
	utils.Success(ctx, gin.H{"users": users, "posts": posts})
}

func (p *PostController) pagination(ctx *gin.Context) (int, int) {
	return store.ParsePagination(ctx.Query("page"), ctx.Query("limit"), p.cfg.DefaultPageSize, p.cfg.MaxPageSize)
}
