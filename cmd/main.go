package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"grocerylist-api/config"
	"grocerylist-api/internal/application"
	"grocerylist-api/internal/container"
	"grocerylist-api/internal/infrastructure/mongodb"
	"grocerylist-api/internal/interface/middleware"
	"grocerylist-api/internal/router"
	"grocerylist-api/pkg/helpers"
	"grocerylist-api/pkg/mailer"
	"grocerylist-api/pkg/session"
	"grocerylist-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB
	mongoClient, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Sessions
	sessions := session.NewManager(rdb, cfg.SessionSecret, cfg.SessionTTL, cfg.Env != "development")

	// Mail transport: verified asynchronously so startup never blocks on the
	// Mailgun API. Send refuses until verification succeeds.
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	go func() {
		if err := mg.Verify(ctx); err != nil {
			logger.WithError(err).Error("mail transport verification failed")
			return
		}
		logger.Info("mail transport verified")
	}()

	// RabbitMQ publisher for non-critical notification mail; optional.
	var pub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, login notifications disabled")
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(mongoClient)
	container.SetMongoDB(db)
	container.SetRedis(rdb)
	container.SetSessions(sessions)
	container.SetMailgun(mg)
	container.SetRabbitPub(pub)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	// Hourly purge of expired unconfirmed registrations
	repo := mongodb.NewUserRepository(db)
	cleanup := application.NewCleanupScheduler(repo, logger, cfg.CleanupInterval)
	cleanup.Start(ctx)

	// Watch infrastructure connections; fixed-delay single-attempt reconnects
	mongoWatcher := &helpers.Reconnector{
		Name:  "mongodb",
		Delay: cfg.ReconnectDelay,
		Ping: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return mongoClient.Ping(pingCtx, nil)
		},
		Reconnect: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return mongoClient.Ping(pingCtx, nil)
		},
		Logger: logger,
	}
	redisWatcher := &helpers.Reconnector{
		Name:  "redis",
		Delay: cfg.ReconnectDelay,
		Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		Reconnect: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		Logger: logger,
	}
	go mongoWatcher.Watch(ctx, 30*time.Second)
	go redisWatcher.Watch(ctx, 30*time.Second)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
