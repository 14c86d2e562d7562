package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/minimarket/storefront/internal/api"
	"github.com/minimarket/storefront/internal/core/ports"
	mongostore "github.com/minimarket/storefront/internal/infrastructure/db/mongo"
	redisstore "github.com/minimarket/storefront/internal/infrastructure/db/redis"
	"github.com/minimarket/storefront/internal/infrastructure/seed"
	"github.com/minimarket/storefront/internal/infrastructure/store/memory"
	"github.com/minimarket/storefront/internal/pkg/config"
	"github.com/minimarket/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Token signing is useless without a secret; refuse to start rather
	// than issue unverifiable credentials.
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	var (
		users    ports.UserRepository
		products ports.ProductRepository
		orders   ports.OrderRepository
		mongoDB  *mongodriver.Database
	)
	switch cfg.StoreBackend {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		mongoDB = db
		users = mongostore.NewUserRepository(db)
		products = mongostore.NewProductRepository(db)
		orders = mongostore.NewOrderRepository(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store backend")
	default:
		users = memory.NewUserRepository()
		products = memory.NewProductRepository()
		orders = memory.NewOrderRepository()
		log.Info().Msg("using in-memory store backend")
	}

	var (
		sessions ports.SessionStore
		rdb      *redisclient.Client
	)
	switch cfg.SessionBackend {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer func() {
			_ = client.Close()
		}()
		rdb = client
		sessions = redisstore.NewSessionStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session backend")
	default:
		sessions = memory.NewSessionStore()
		log.Info().Msg("using in-memory session backend")
	}

	if cfg.SeedDemoData {
		if err := seed.Load(ctx, users, products); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
		log.Info().Msg("demo data loaded")
	}

	e := api.NewRouter(api.RouterConfig{
		Users:      users,
		Products:   products,
		Orders:     orders,
		Sessions:   sessions,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		SessionTTL: cfg.SessionTTL,
		Mongo:      mongoDB,
		Redis:      rdb,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("storefront listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
