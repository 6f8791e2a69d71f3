package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"menthub/internal/core/ports"
	"menthub/internal/core/services"
	handlers "menthub/internal/handlers/http"
	"menthub/internal/infrastructure/distributed"
	"menthub/internal/infrastructure/middleware"
	"menthub/internal/infrastructure/monitoring"
	"menthub/internal/infrastructure/repositories/memory"
	"menthub/internal/infrastructure/repositories/xormstore"
	"menthub/internal/realtime"
	"menthub/pkg/config"
	"menthub/pkg/logger"
	"menthub/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zl.Sync()
	sugar := zl.Sugar()

	tp, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "menthub",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: os.Getenv("MENTHUB_ENV"),
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		sugar.Fatalw("failed to init tracing", "error", err)
	}

	// Repositories: MySQL when configured, in-memory for dev mode.
	var (
		userRepo  ports.UserRepository
		msgRepo   ports.MessageRepository
		notifRepo ports.NotificationRepository
	)
	if cfg.Database.Enabled {
		engine, err := xormstore.NewEngine(
			cfg.Database.Host, cfg.Database.Port,
			cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
			cfg.Database.ShowSQL, sugar,
		)
		if err != nil {
			sugar.Fatalw("failed to connect to database", "error", err)
		}
		defer engine.Close()

		userRepo = xormstore.NewUserRepository(engine)
		msgRepo = xormstore.NewMessageRepository(engine)
		notifRepo = xormstore.NewNotificationRepository(engine)
	} else {
		sugar.Warn("database disabled, using in-memory repositories")
		userRepo = memory.NewMemoryUserRepository()
		msgRepo = memory.NewMemoryMessageRepository()
		notifRepo = memory.NewMemoryNotificationRepository()
	}

	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	messages := services.NewMessageService(msgRepo)

	registry := realtime.NewRegistry()
	hub := realtime.NewHub(sugar)
	notifications := services.NewNotificationService(notifRepo, registry, hub, sugar)
	metrics := monitoring.NewPrometheusCollector(prometheus.DefaultRegisterer)

	gateway := realtime.NewGateway(userRepo, tokens, messages, notifications, registry, hub, metrics, sugar)
	gateway.SetPingInterval(cfg.Realtime.PingInterval)
	gateway.SetPongTimeout(cfg.Realtime.PongTimeout)
	gateway.SetWriteTimeout(cfg.Realtime.WriteTimeout)
	gateway.SetMaxMessageSize(cfg.Realtime.MaxMessageSize)
	gateway.SetEventRate(cfg.Realtime.MessagesPerSecond, cfg.Realtime.Burst)

	if cfg.Redis.Enabled {
		client, err := distributed.NewRedisClient(
			cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, sugar,
		)
		if err != nil {
			sugar.Fatalw("failed to connect to redis", "error", err)
		}
		defer client.Close()

		bus := distributed.NewRedisPresenceBus(client, uuid.New().String(), sugar)
		gateway.SetPresencePublisher(bus)

		// Relay presence transitions from sibling instances to local
		// clients; the local registry stays authoritative for local
		// connections.
		go func() {
			err := bus.Subscribe(context.Background(), func(event *distributed.PresenceEvent) {
				eventType := realtime.EventUserOnline
				if !event.Online {
					eventType = realtime.EventUserOffline
				}
				hub.Broadcast(realtime.ServerEvent{Type: eventType, Payload: event.UserID})
			})
			if err != nil && err != context.Canceled {
				sugar.Warnw("presence subscription ended", "error", err)
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(sugar))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.HTTPRateLimitMiddleware(50, 100))
	router.Use(middleware.ErrorHandlerMiddleware(sugar))

	handlers.NewAuthHandler(userRepo, tokens, cfg.Auth.AccessTokenTTL).SetupRoutes(router)
	handlers.NewMessageHandler(messages, tokens).SetupRoutes(router)
	handlers.NewNotificationHandler(notifications, tokens).SetupRoutes(router)

	router.GET("/ws", gin.WrapF(gateway.HandleWebSocket))
	router.GET("/health", monitoring.HealthHandler(registry))
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sugar.Infow("starting menthub realtime server", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		sugar.Errorw("forced shutdown", "error", err)
	}
	if err := tp.Shutdown(ctx); err != nil {
		sugar.Errorw("failed to shut down tracer", "error", err)
	}
}
