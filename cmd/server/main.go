package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"gamemaster-server/internal/catalog"
	"gamemaster-server/internal/config"
	"gamemaster-server/internal/dialogue"
	"gamemaster-server/internal/handler"
	"gamemaster-server/internal/logger"
	"gamemaster-server/internal/messaging"
	"gamemaster-server/internal/narrator"
	"gamemaster-server/internal/prompt"
	"gamemaster-server/internal/repository"
	"gamemaster-server/internal/worker"
)

func main() {
	// .env is optional, real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Encoding:   cfg.LogEncoding,
		OutputPath: cfg.LogOutputPath,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Starting game-master server...",
		zap.String("httpPort", cfg.HTTPPort),
		zap.String("provider", cfg.AIProvider),
		zap.String("model", cfg.AIModel),
		zap.String("template", cfg.PromptTemplate),
	)

	cat, err := catalog.New()
	if err != nil {
		zapLogger.Fatal("Catalog failed validation", zap.Error(err))
	}

	template, err := prompt.ForName(cfg.PromptTemplate)
	if err != nil {
		zapLogger.Fatal("Unknown prompt template", zap.Error(err))
	}
	assembler := prompt.NewAssembler(template, cfg.WindowTurns, cfg.TokenBudget, zapLogger)

	// The backend handle is built lazily on the first narrated turn; a failed
	// load is cached and reported, never retried.
	invoker := narrator.NewInvoker(func() (narrator.Client, error) {
		return narrator.NewClient(narrator.Config{
			Provider: cfg.AIProvider,
			BaseURL:  cfg.AIBaseURL,
			APIKey:   cfg.AIAPIKey,
			Model:    cfg.AIModel,
			Timeout:  cfg.AITimeout,
		}, zapLogger)
	}, zapLogger)

	sessions := buildSessionRepository(cfg, zapLogger)
	publisher := buildTurnPublisher(cfg, zapLogger)
	defer func() { _ = publisher.Close() }()

	pool := worker.New(cfg.WorkerPoolSize, zapLogger)

	engine := dialogue.NewEngine(dialogue.EngineParams{
		Catalog:   cat,
		Sessions:  sessions,
		Assembler: assembler,
		Generator: invoker,
		Pool:      pool,
		Publisher: publisher,
		Logger:    zapLogger,
	})

	go startMetricsServer(cfg.MetricsPort, zapLogger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	// Request metrics (gin_request_duration_seconds etc.) on the app router;
	// the narrator metrics live on the side port.
	ginprometheus.NewPrometheus("gin").Use(router)

	handler.NewWebhookHandler(engine, zapLogger).RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	pool.Wait()
	zapLogger.Info("Server stopped")
}

// buildSessionRepository picks Redis when configured, in-process memory
// otherwise.
func buildSessionRepository(cfg *config.Config, zapLogger *zap.Logger) repository.SessionRepository {
	if cfg.RedisAddr == "" {
		zapLogger.Info("Using in-memory session store")
		return repository.NewMemorySessionRepository()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.RedisAddr))
	}

	zapLogger.Info("Using Redis session store", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.SessionTTL))
	return repository.NewRedisSessionRepository(client, cfg.SessionTTL, zapLogger)
}

// buildTurnPublisher connects to RabbitMQ when configured; otherwise turn
// events are dropped.
func buildTurnPublisher(cfg *config.Config, zapLogger *zap.Logger) messaging.TurnPublisher {
	if cfg.RabbitMQURL == "" {
		zapLogger.Info("Turn event publishing disabled")
		return messaging.NewNoopTurnPublisher()
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}

	publisher, err := messaging.NewAMQPTurnPublisher(conn, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create turn publisher", zap.Error(err))
	}

	zapLogger.Info("Turn event publishing enabled", zap.String("exchange", messaging.ExchangeTurnEvents))
	return publisher
}

func startMetricsServer(port string, zapLogger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	zapLogger.Info("Metrics server listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		zapLogger.Error("Metrics server failed", zap.Error(err))
	}
}
