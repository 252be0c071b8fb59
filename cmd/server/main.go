package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/config"
	"github.com/avitale/badgeboard/internal/database"
	"github.com/avitale/badgeboard/internal/handler"
	"github.com/avitale/badgeboard/internal/middleware"
	"github.com/avitale/badgeboard/internal/queue"
	"github.com/avitale/badgeboard/internal/repository"
	"github.com/avitale/badgeboard/internal/router"
	"github.com/avitale/badgeboard/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Bootstrap(ctx, db, cfg.AdminCode, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		cancel()
		log.Fatalf("bootstrap schema: %v", err)
	}
	cancel()

	assets, err := storage.NewAssetStore(cfg.AssetsDir)
	if err != nil {
		log.Fatalf("open asset store: %v", err)
	}

	users := repository.NewUserRepo(db)
	workLogs := repository.NewWorkLogRepo(db)
	removals := repository.NewRemovalRepo(db)
	profiles := repository.NewProfileRepo(db)
	characters := repository.NewCharacterRepo(db)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis not configured; response cache and rate limiting disabled")
	}

	if cfg.AuditConsumer {
		go queue.StartAuditConsumer()
	}

	cache := middleware.NewCache(config.LoadCacheConfig(), rdb)

	bacheca := handler.NewBachecaHandler(cfg, characters, assets)
	bacheca.Invalidate = cache.Invalidate

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		WorkLog:   handler.NewWorkLogHandler(workLogs, removals),
		Admin:     handler.NewAdminHandler(cfg, users, removals),
		Profile:   handler.NewProfileHandler(cfg, profiles, assets),
		Bacheca:   bacheca,
		JWTSecret: cfg.JWTSecret,
		Cache:     cache.Middleware(),
		Limiter:   middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s db=%s assets=%s)", addr, cfg.Env, cfg.DBPath, assets.Root())
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
