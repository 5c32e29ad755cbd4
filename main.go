package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/cppla/nexus/config"
	"github.com/cppla/nexus/models"
	"github.com/cppla/nexus/routes"
	"github.com/cppla/nexus/store"
	"github.com/cppla/nexus/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(cfg, models.All()...)
	st := store.New(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemoUser {
		created, err := st.EnsureDemoUser(ctx)
		if err != nil {
			utils.Sugar.Fatalf("seed demo user: %v", err)
		}
		if created {
			utils.Sugar.Info("seeded demo user")
		}
	}

	utils.InitRedis(cfg)

	// Background counter reconciliation (best-effort)
	utils.StartCounterReconciler(ctx, st, time.Duration(cfg.ReconcileIntervalMinutes)*time.Minute)

	r := routes.SetupRouter(st, cfg)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
