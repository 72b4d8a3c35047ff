package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kampuskart/internal/mess/config"
	"kampuskart/internal/mess/handler"
	"kampuskart/internal/mess/jobs"
	"kampuskart/internal/mess/middleware"
	"kampuskart/internal/mess/queue"
	"kampuskart/internal/mess/repository"
	"kampuskart/internal/mess/router"
	"kampuskart/internal/mess/seed"
	"kampuskart/internal/mess/service"
	"kampuskart/internal/mess/util"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()
	loc := cfg.Location()

	// 2. Init storage
	var (
		store  repository.Store
		client *mongo.Client
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store = repository.NewMemoryRepository()
		logger.Warn("Using in-memory storage, data is lost on restart")
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = client.Ping(ctx, nil)
		}
		cancel()
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		store = repository.NewMongoRepository(client.Database(cfg.DBName), cfg.MessCollection, cfg.ActivityCollection)
	}

	if err := store.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}
	if err := store.EnsureActivityIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure activity indexes", "error", err)
	}

	if cfg.SeedOnStart {
		n, err := seed.Apply(context.Background(), store)
		if err != nil {
			logger.Error("Failed to seed catalog", "error", err)
		} else if n > 0 {
			logger.Info("Seeded catalog", "messes", n)
		}
	}

	// 3. Init Layers
	svc := service.NewService(store, store, loc)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var publisher *queue.Publisher
	if cfg.AMQPEnabled {
		publisher = queue.NewPublisher(cfg.AMQPURL, cfg.ActivityQueue)
		svc.Publisher = publisher
		go queue.StartActivityConsumer(bgCtx, cfg.AMQPURL, cfg.ActivityQueue, store)
		logger.Info("Activity events routed through broker", "queue", cfg.ActivityQueue)
	}

	openJob := jobs.NewOpenStatusJob(store, loc, cfg.OpenStatusInterval)
	openJob.Start()

	rdb := cfg.NewRedisClient()
	if cfg.RedisAddr != "" && rdb == nil {
		logger.Warn("Redis unreachable, cache and rate limit disabled", "addr", cfg.RedisAddr)
	}

	h := handler.NewMessHandler(svc, loc)

	// 4. Init Echo & Routes
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	opts := router.Options{JWTSecret: cfg.JWTSecret}
	if rdb != nil {
		opts.SearchCache = middleware.NewRedisCache(middleware.CacheConfig{
			Enabled:      cfg.CacheTTL > 0,
			TTL:          cfg.CacheTTL,
			Prefix:       "kampuskart:messes",
			MaxBodyBytes: 1 << 20,
		}, rdb)
		opts.RateLimit = middleware.NewTokenBucket(middleware.RateLimitConfig{
			Enabled:        cfg.RateLimit.Enabled,
			Capacity:       cfg.RateLimit.Capacity,
			RefillTokens:   cfg.RateLimit.Refill,
			RefillInterval: cfg.RateLimit.Period,
			Prefix:         "kampuskart:rl",
		}, rdb, handler.CallerID)
	}

	router.RegisterRoutes(e, h, opts)

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "storage", cfg.StorageDriver, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	openJob.Stop()
	stopBackground()
	if publisher != nil {
		_ = publisher.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect DB", "error", err)
		}
	}

	logger.Info("Server exited properly")
}
