// Command server runs the online catalog API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Michelc16/catalogo-online/internal/api"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/config"
	mongodb "github.com/Michelc16/catalogo-online/internal/infrastructure/db/mongo"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/db/postgres"
	redisdb "github.com/Michelc16/catalogo-online/internal/infrastructure/db/redis"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/session"
	"github.com/Michelc16/catalogo-online/internal/infrastructure/storage"
	"github.com/Michelc16/catalogo-online/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("configuration")
		return
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Postgres (users) ---
	pg, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer pg.Close()

	if err := postgres.Migrate(ctx, pg); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	// --- MongoDB (products) ---
	mongoClient, mongoDB, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	// --- Redis (category cache, optional) ---
	var cache ports.CategoryCache
	deps := api.Deps{
		Users:     postgres.NewUserStore(pg),
		Products:  mongodb.NewProductRepository(mongoDB),
		Sessions:  session.NewMemoryStore(cfg.SessionTTL),
		PG:        pg,
		Mongo:     mongoDB,
		Codec:     session.NewCookieCodec(cfg.SessionSecret),
		BodyLimit: cfg.BodyLimit,
		Logger:    log,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer rdb.Close()
		cache = redisdb.NewCategoryCache(rdb)
		deps.Redis = rdb
	}
	deps.Cache = cache

	// --- Image store ---
	switch cfg.ImageStore {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("s3 store")
		}
		deps.Images = store
	default:
		store, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			log.Fatal().Err(err).Msg("local store")
		}
		deps.Images = store
		deps.UploadDir = store.Dir()
	}

	e := api.NewRouter(deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("catalog API started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("catalog API stopped")
}
