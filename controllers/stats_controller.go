package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

// StatsController provides row totals, per-post counter drift and the health check.
type StatsController struct {
	store *store.Store
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(st *store.Store) *StatsController {
	return &StatsController{store: st}
}

// Health answers {ok:true} when the database is reachable.
func (s *StatsController) Health(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(c); err != nil {
		utils.Sugar.Warnw("health check failed", "err", err)
		utils.Respond(ctx, http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	utils.Success(ctx, gin.H{"ok": true})
}

// GetStats returns user, post and comment totals.
func (s *StatsController) GetStats(ctx *gin.Context) {
	utils.Success(ctx, s.store.Totals(ctx.Request.Context()))
}

// GetPostStats compares a post's counters against its like and comment rows.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	st, err := s.store.PostStats(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondStoreError(ctx, err, "post not found", 50040, "failed to load post stats")
		return
	}
	utils.Success(ctx, st)
}
