package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/config"
	"github.com/SemperAdmin/DutySync-sub000/internal/api/handler"
	"github.com/SemperAdmin/DutySync-sub000/internal/api/router"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
	"github.com/SemperAdmin/DutySync-sub000/internal/syncrelay"
	"github.com/SemperAdmin/DutySync-sub000/pkg/database"
	"github.com/SemperAdmin/DutySync-sub000/pkg/jwt"
	applogger "github.com/SemperAdmin/DutySync-sub000/pkg/logger"
	"github.com/SemperAdmin/DutySync-sub000/pkg/redis"
)

// nopBlacklist stands in when Redis is unavailable. Tokens are still verified
// cryptographically; revocation just has no effect until Redis returns.
type nopBlacklist struct{}

func (nopBlacklist) BlacklistToken(context.Context, string, time.Duration) error { return nil }
func (nopBlacklist) IsBlacklisted(context.Context, string) (bool, error)         { return false, nil }

func main() {
	// 1. load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. initialize logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. connect to the database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 run migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to obtain sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. connect to Redis (degraded single-process mode when unavailable)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable; token revocation and cross-process invalidation disabled", zap.Error(err))
		rdb = nil
	}

	// 5. JWT manager
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. dependency wiring: repository -> store -> relay -> service -> handler
	repo := repository.NewRepository(db)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var blacklist service.TokenBlacklist = nopBlacklist{}
	var st *store.Store
	if rdb != nil {
		blacklist = rdb
		st = store.New(repo, rdb, logger)
		rdb.SubscribeInvalidations(runCtx, st.OriginID(), st.HandleRemoteInvalidation)
	} else {
		st = store.New(repo, nil, logger)
	}

	var relay syncrelay.Queue = syncrelay.NopQueue{}
	var relayImpl *syncrelay.Relay
	if cfg.Sync.Enabled {
		relayImpl = syncrelay.New(&cfg.Sync, syncrelay.NewHTTPRemote(&cfg.Sync), repo.SyncFailure, logger)
		relay = relayImpl
		logger.Info("sync relay enabled", zap.String("remote_url", cfg.Sync.RemoteURL))
	}

	svc := service.New(repo, st, relay, jwtMgr, blacklist, logger)
	h := handler.NewHandler(svc)

	// 7. router
	engine := router.Setup(cfg, h, jwtMgr, blacklist, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a shutdown signal
	<-runCtx.Done()
	logger.Info("shutdown signal received, draining")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	// drain the sync relay before dropping connections
	if relayImpl != nil {
		relayImpl.Close()
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
