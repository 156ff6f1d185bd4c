// Command api runs the accounts REST service: user storage, session-token
// issuance and validation, and role-based access control.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/micellaneous/accounts-api/internal/api"
	"github.com/micellaneous/accounts-api/internal/core/service"
	"github.com/micellaneous/accounts-api/internal/infrastructure/bootstrap"
	"github.com/micellaneous/accounts-api/internal/infrastructure/config"
	mongodb "github.com/micellaneous/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/micellaneous/accounts-api/internal/infrastructure/db/redis"
	"github.com/micellaneous/accounts-api/internal/infrastructure/queue"
	"github.com/micellaneous/accounts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Accounts API
// @version      1.0
// @description  User-account and authentication backend.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Core services ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	users := service.NewUserService(userRepo, hasher, log)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL(),
	})
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginAttempts, cfg.LoginWindow())

	// --- Audit pipeline ---
	auditRepo := mongodb.NewAuditRepository(db)
	audit := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	audit.Start(ctx)

	if cfg.InitDB {
		if err := bootstrap.SeedAdmin(ctx, users, cfg.SeedAdminUser, cfg.SeedAdminPass, log); err != nil {
			log.Fatal().Err(err).Msg("db seeding failed")
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Users:    users,
		Tokens:   tokens,
		UserRepo: userRepo,
		Limiter:  limiter,
		Audit:    audit,
		Mongo:    db,
		Redis:    rdb,
		Version:  cfg.Version,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting accounts api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
