package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"story-gen/internal/config"
	apihttp "story-gen/internal/http"
	"story-gen/internal/llm"
	"story-gen/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogDevelopment)
	defer logger.Sync()

	llmClient := llm.NewOpenAIClient(llm.Options{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}, logger)
	if !llmClient.HasCredential() {
		logger.Warn("openai api key not configured; submissions will fail")
	}

	lockTTL := 5 * time.Minute
	if cfg.LLMTimeout > 0 {
		lockTTL = cfg.LLMTimeout + 30*time.Second
	}
	store := service.NewMemoryViewStore(cfg.ViewTTL(), lockTTL)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using memory view store", zap.Error(err))
		} else {
			store = service.NewRedisViewStore(redisClient, cfg.ViewTTL(), lockTTL)
		}
		cancel()
	}

	secret := cfg.ViewTokenSecret
	if secret == "" {
		logger.Warn("view token secret not configured, using ephemeral secret")
		if secret, err = service.RandomSecret(); err != nil {
			logger.Fatal("generate view token secret", zap.Error(err))
		}
	}
	tokenSvc := service.NewViewTokenService(secret, cfg.ViewTTL())

	storySvc := service.NewStoryService(logger, llmClient)
	viewSvc := service.NewViewService(logger, storySvc, store, tokenSvc)

	pageHandler := apihttp.NewPageHandler(logger, viewSvc)
	apiHandler := apihttp.NewStoryAPIHandler(logger, storySvc)
	router := apihttp.NewRouter(logger, cfg.CORSAllowedOrigins, pageHandler, apiHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func newLogger(development bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
