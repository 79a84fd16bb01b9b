package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/api/handlers"
	"github.com/stitts-dev/fusion-ai/internal/api/middleware"
	"github.com/stitts-dev/fusion-ai/internal/providers"
	"github.com/stitts-dev/fusion-ai/internal/services"
	"github.com/stitts-dev/fusion-ai/internal/session"
	"github.com/stitts-dev/fusion-ai/internal/websocket"
	"github.com/stitts-dev/fusion-ai/pkg/config"
	"github.com/stitts-dev/fusion-ai/pkg/logger"
	"github.com/stitts-dev/fusion-ai/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithService(cfg.ServiceName)
	log.WithFields(logrus.Fields{
		"version":           handlers.Version,
		"environment":       cfg.Env,
		"port":              cfg.Port,
		"gemini_configured": cfg.GeminiConfigured(),
	}).Info("Starting Fusion AI lineup service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	metricsManager := metrics.NewManager()

	// Session store
	var store session.Store
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, cfg.SessionTTL, structuredLogger)
	} else {
		memoryStore := session.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL, structuredLogger)
		if err := memoryStore.StartJanitor(cfg.SessionSweepSchedule); err != nil {
			log.Fatalf("Failed to schedule session sweep: %v", err)
		}
		defer memoryStore.StopJanitor()
		store = memoryStore
	}
	log.WithField("store", store.Name()).Info("Session store ready")

	// Player data
	var profileProvider providers.ProfileProvider = providers.NewSeededProvider()
	if cfg.PlayerDataFile != "" {
		static, err := providers.LoadStaticProvider(cfg.PlayerDataFile)
		if err != nil {
			log.Fatalf("Failed to load player data: %v", err)
		}
		log.WithField("players", static.Len()).Info("Loaded static player profiles")
		profileProvider = static
	}
	roster := providers.NewRoster(cfg.RosterSeed)

	// AI delegate; both interfaces stay nil without a key
	var delegate services.Delegate
	var delegateStatus handlers.DelegateStatus
	if cfg.GeminiConfigured() {
		geminiClient, err := services.NewGeminiClient(ctx, cfg, structuredLogger)
		if err != nil {
			log.WithError(err).Warn("Gemini unavailable, serving rule-based lineups only")
		} else {
			defer geminiClient.Close()
			delegate = geminiClient
			delegateStatus = geminiClient
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, serving rule-based lineups only")
	}

	predictor := services.NewLineupPredictor(profileProvider, delegate, metricsManager, structuredLogger)
	assistant := services.NewAssistant(store, roster, delegate, metricsManager, structuredLogger)

	chatHub := websocket.NewChatHub(assistant, cfg.CorsOrigins, metricsManager, structuredLogger)
	go chatHub.Run()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(structuredLogger, cfg.ServiceName),
		middleware.CORS(cfg.CorsOrigins),
		middleware.Metrics(metricsManager),
	)

	predictionHandler := handlers.NewPredictionHandler(predictor, structuredLogger)
	chatHandler := handlers.NewChatHandler(assistant, structuredLogger)
	healthHandler := handlers.NewHealthHandler(assistant, delegateStatus, cfg.ServiceName, structuredLogger)

	aiGroup := router.Group("/api/ai")
	{
		aiGroup.POST("/predict-lineup", predictionHandler.PredictLineup)
		aiGroup.POST("/player-analysis", predictionHandler.AnalyzePlayer)
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/chat", chatHandler.Chat)
		apiGroup.POST("/preferences", chatHandler.UpdatePreferences)
		apiGroup.POST("/player-info", chatHandler.PlayerInfo)
		apiGroup.POST("/reset", chatHandler.Reset)
		apiGroup.GET("/quick-suggestions", chatHandler.QuickSuggestions)
	}

	router.GET("/ws/chat/:session_id", chatHub.HandleWebSocket)

	router.GET("/", healthHandler.GetRoot)
	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.HEAD("/ready", healthHandler.GetReady)
	router.GET("/metrics", gin.WrapH(metricsManager.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Fusion AI lineup service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Fusion AI lineup service...")
	chatHub.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Fusion AI lineup service forced to shutdown: %v", err)
	}

	log.Info("Fusion AI lineup service exited")
}
