package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/nexus/config"
	"github.com/cppla/nexus/controllers"
	"github.com/cppla/nexus/middleware"
	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(st *store.Store, cfg config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	r := gin.New()
	// Access log goes to its own rolling file when configured, else to the app logger
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin access log disabled: %v", err)
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, false))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	metrics := middleware.NewMetrics()
	r.Use(metrics.Middleware())
	r.GET("/metrics", metrics.Handler())

	userController := controllers.NewUserController(st, metrics)
	postController := controllers.NewPostController(st, cfg, metrics)
	engagementController := controllers.NewEngagementController(st, metrics)
	statsController := controllers.NewStatsController(st)

	api := r.Group("/api")
	api.GET("/health", statsController.Health)
	api.GET("/stats", statsController.GetStats)
	api.GET("/search", postController.Search)

	api.GET("/users", userController.ListUsers)
	api.GET("/users/:id/posts", postController.ListUserPosts)
	api.GET("/users/:id/follow", userController.IsFollowing)

	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/comments", postController.ListComments)
	api.GET("/posts/:id/stats", statsController.GetPostStats)

	// Writes share one per-IP limiter
	writes := api.Group("")
	writes.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	writes.POST("/users", userController.CreateUser)
	writes.POST("/users/:id/follow", userController.Follow)
	writes.DELETE("/users/:id/follow", userController.Unfollow)
	writes.POST("/posts", postController.CreatePost)
	writes.POST("/posts/:id/comments", postController.CreateComment)
	writes.POST("/posts/:id/like", engagementController.LikePost)
	writes.DELETE("/posts/:id/like", engagementController.UnlikePost)
	writes.POST("/posts/:id/share", engagementController.SharePost)
	writes.POST("/comments/:id/like", engagementController.LikeComment)
	writes.DELETE("/comments/:id/like", engagementController.UnlikeComment)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	})

	return r
}
