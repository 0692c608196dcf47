package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adriel2503/agente-reserva/config"
	"github.com/Adriel2503/agente-reserva/handlers"
	"github.com/Adriel2503/agente-reserva/metrics"
	"github.com/Adriel2503/agente-reserva/middleware"
	"github.com/Adriel2503/agente-reserva/routes"
	"github.com/Adriel2503/agente-reserva/services/booking"
	"github.com/Adriel2503/agente-reserva/services/catalog"
	ai "github.com/Adriel2503/agente-reserva/services/intelligence"
	"github.com/Adriel2503/agente-reserva/services/remote"
	"github.com/Adriel2503/agente-reserva/services/schedule"
	"github.com/Adriel2503/agente-reserva/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := utils.InitTracing(rootCtx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize tracing: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("Falling back to UTC", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// metrics.
	recorder := metrics.New(metrics.DefaultConfig())
	recorder.SetAgentInfo(cfg.Version, cfg.GeminiModel)

	// remote services.
	apiClient := remote.NewClient(remote.NewHTTPClient(), cfg.APITimeoutDuration(), logger.Named("remote"), recorder)
	informationClient := remote.NewInformationClient(apiClient, cfg.InformationURL)
	bookingClient := remote.NewBookingClient(apiClient, cfg.BookingURL)

	// schedule engine.
	scheduleCache := schedule.NewCache(cfg.ScheduleCacheTTL(), schedule.WithSizeObserver(func(n int) {
		recorder.SetCacheEntries("schedule", n)
	}))
	fetcher := schedule.NewFetcher(scheduleCache, informationClient, logger.Named("schedule"))
	validator := &schedule.Validator{
		Schedules:    fetcher,
		Availability: bookingClient,
		Location:     loc,
		Logger:       logger.Named("validator"),
	}
	recommender := &schedule.Recommender{
		Schedules: fetcher,
		Suggester: bookingClient,
		Location:  loc,
		Logger:    logger.Named("recommender"),
	}

	// booking and catalogue.
	bookingService := &booking.Service{
		Schedule:  validator,
		Confirmer: bookingClient,
		Metrics:   recorder,
		Location:  loc,
		Logger:    logger.Named("booking"),
	}
	catalogService := &catalog.Service{
		Source: informationClient,
		Limit:  cfg.CatalogLimit,
		Logger: logger.Named("catalog"),
	}

	// conversation memory.
	var memory ai.MemoryStore
	if err := utils.InitMemoryRedis(rootCtx); err != nil {
		logger.Warn("Redis unavailable, keeping conversation memory in process", zap.Error(err))
	}
	if client := utils.GetMemoryClient(); client != nil {
		memory = ai.NewRedisMemoryStore(client, cfg.MemoryTTL(), cfg.MemoryMaxTurns)
	} else {
		memory = ai.NewInMemoryStore(cfg.MemoryMaxTurns, recorder.SetMemorySessions)
	}
	utils.StartHealthMonitor(rootCtx, utils.GetMemoryClient(), 60*time.Second)

	// model.
	var model ai.ChatModel
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; /chat will answer with fallback replies")
		model = ai.NewUnavailableModel(errors.New("GEMINI_API_KEY is not set"))
	} else {
		gemini, err := ai.NewGeminiModel(rootCtx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTemperature, cfg.LLMMaxTokens)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer gemini.Close()
		model = gemini
	}

	agent := &ai.Agent{
		Model: model,
		Tools: &ai.ToolExecutor{
			Validator:   validator,
			Recommender: recommender,
			Booking:     bookingService,
			Metrics:     recorder,
			Logger:      logger.Named("tools"),
		},
		Catalog:  catalogService,
		Memory:   memory,
		Metrics:  recorder,
		Location: loc,
		Timeout:  cfg.LLMTimeoutDuration(),
		Logger:   logger.Named("agent"),
	}

	chatHandler := handlers.NewChatHandler(agent)
	scheduleHandler := handlers.NewScheduleHandler(validator, recommender)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ChatHandler:              chatHandler.HandleChat,
		ValidateScheduleHandler:  scheduleHandler.ValidateHandler,
		RecommendScheduleHandler: scheduleHandler.RecommendHandler,
		HealthHandler:            handlers.HealthHandler,
		MetricsHandler:           gin.WrapH(recorder.Handler()),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           otelhttp.NewHandler(router, "agent-reservas"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("main: tracer shutdown failed", zap.Error(err))
	}
	utils.CloseMemoryRedis()

	logger.Sugar().Info("main: server stopped gracefully")
}
