// Command server runs the AccessHub API.
//
//	@title                       AccessHub API
//	@version                     1.0
//	@description                 Role-based access control backend for the AccessHub admin dashboard.
//	@BasePath                    /api
//	@securityDefinitions.apikey  BearerAuth
//	@in                          header
//	@name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/accesshub/accesshub-api/docs"
	"github.com/accesshub/accesshub-api/internal/api"
	"github.com/accesshub/accesshub-api/internal/api/handler"
	"github.com/accesshub/accesshub-api/internal/core/ports"
	"github.com/accesshub/accesshub-api/internal/core/service"
	"github.com/accesshub/accesshub-api/internal/infrastructure/config"
	mongodb "github.com/accesshub/accesshub-api/internal/infrastructure/db/mongo"
	redisdb "github.com/accesshub/accesshub-api/internal/infrastructure/db/redis"
	"github.com/accesshub/accesshub-api/internal/infrastructure/storage/minio"
	"github.com/accesshub/accesshub-api/pkg/logger"
)

var buildVersion = "1.0.0" // set by ldflags

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "accesshub-api",
		Version: buildVersion,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	checks := map[string]handler.DependencyCheck{"mongodb": mongodb.Ping(db)}

	var authOpts []service.AuthOption
	if cfg.Auth.Revocation {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		authOpts = append(authOpts, service.WithDenylist(redisdb.NewDenylist(rdb)))
		checks["redis"] = redisdb.Ping(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	}

	var storage ports.ObjectStorage
	if cfg.StorageEnabled() {
		store, err := minio.New(ctx, minio.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			Expiry:    cfg.Storage.DownloadTTL,
		})
		if err != nil {
			return err
		}
		storage = store
		checks["minio"] = store.Ping
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("presigned downloads enabled")
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	userRepo := mongodb.NewUserRepository(db)
	activities := service.NewActivityService(userRepo, mongodb.NewActivityRepository(db), logger.Component("activity"))
	users := service.NewUserService(userRepo, activities, logger.Component("users"))
	auth := service.NewAuthService(userRepo, tokens, activities, logger.Component("auth"), authOpts...)
	resources := service.NewResourceService(mongodb.NewResourceRepository(db), activities, storage, logger.Component("resources"))

	if cfg.SeedAdmin() {
		admin, err := users.EnsureAdmin(ctx, ports.AdminSeed{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Info().Str("email", admin.Email).Msg("admin account ready")
	}

	e := api.NewRouter(api.Services{
		Auth:       auth,
		Users:      users,
		Activities: activities,
		Resources:  resources,
	}, api.Options{
		APIPrefix:    cfg.APIPrefix,
		ClientURL:    cfg.ClientURL,
		Version:      buildVersion,
		ExposeErrors: !cfg.IsProduction(),
		Checks:       checks,
		Logger:       logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
