// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vapicalendar/config"
	"vapicalendar/cron"
	"vapicalendar/database"
	availabilityRepo "vapicalendar/database/repository/availability"
	interactionsRepo "vapicalendar/database/repository/interactions"
	"vapicalendar/database/supabase"
	"vapicalendar/handlers"
	"vapicalendar/routes"
	"vapicalendar/services/audit"
	"vapicalendar/services/booking"
	"vapicalendar/services/timeparse"
	"vapicalendar/services/vapi"
	"vapicalendar/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	for _, problem := range cfg.Validate() {
		logger.Warn("main: configuration problem", zap.String("problem", problem))
	}

	loc := cfg.Location()
	timeout := cfg.BackendTimeout()
	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, timeout)
	monitor := utils.NewHealthMonitor(logger.Named("health"), 3*time.Second)

	// availability backend.
	backend := newAvailabilityBackend(cfg, supabaseClient, monitor, logger)

	// audit capture.
	recorder, stopAudit := newAuditRecorder(cfg, supabaseClient, monitor, logger)

	// services.
	availability := &booking.DefaultAvailabilityService{Backend: backend}
	events := booking.NewHTTPEventCreator(cfg.BookingAPIURL, cfg.BookingAPIKey, timeout)
	dispatcher := &vapi.Dispatcher{
		Resolver:     timeparse.NewResolver(loc, nil),
		Availability: availability,
		Alternatives: &booking.DefaultAlternativeFinder{Availability: availability},
		Booking: &booking.DefaultBookingExecutor{
			Availability: availability,
			Events:       events,
			Logger:       logger.Named("booking"),
		},
		Defaults: vapi.Defaults{
			CheckDurationMinutes:   cfg.CheckDurationMinutes,
			BookingDurationMinutes: cfg.BookingDurationMinutes,
			MaxAlternatives:        cfg.MaxAlternatives,
		},
		Logger: logger.Named("dispatcher"),
	}
	calendarHandler := handlers.NewCalendarHandler(dispatcher, vapi.NewRenderer(loc), recorder)

	if err := monitor.Start(cfg.HealthCheckSchedule); err != nil {
		logger.Warn("main: health monitor not scheduled", zap.String("schedule", cfg.HealthCheckSchedule), zap.Error(err))
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Logger:              logger,
		LocalWebhookEnabled: cfg.LocalWebhookEnabled,
		LocalWebhook:        calendarHandler.HandleFunctionCall,
		HostedWebhook:       calendarHandler.HandleFunctionCall,
		VapiSecret:          cfg.VapiSecret,
		MaxRequestsPerMin:   cfg.MaxRequestsPerMin,
		Health:              handlers.HealthHandler(monitor),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2*timeout + 5*time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	monitor.Stop()
	stopAudit()
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	logger.Sugar().Info("main: server stopped gracefully")
}

func newAvailabilityBackend(cfg config.Config, client *supabase.Client, monitor *utils.HealthMonitor, logger *zap.Logger) booking.AvailabilityBackend {
	switch strings.ToLower(cfg.AvailabilityBackend) {
	case "ics":
		backend, err := availabilityRepo.NewICSBackend(cfg.ICSURL, cfg.Location(), cfg.BusinessHoursStart, cfg.BusinessHoursEnd,
			cfg.BackendTimeout(), logger.Named("ics"))
		if err != nil {
			logger.Sugar().Fatalf("main: failed to configure ics availability backend: %v", err)
		}
		logger.Info("main: availability backend ready", zap.String("backend", "ics"))
		return backend
	default:
		monitor.Register("supabase", client.Ping)
		logger.Info("main: availability backend ready", zap.String("backend", "supabase"), zap.String("rpc", cfg.AvailabilityRPC))
		return availabilityRepo.NewSupabaseBackend(client, cfg.AvailabilityRPC)
	}
}

// newAuditRecorder picks the audit sink and, with AUDIT_ASYNC, puts the asynq
// queue in front of it. The returned func releases whatever was opened.
func newAuditRecorder(cfg config.Config, client *supabase.Client, monitor *utils.HealthMonitor, logger *zap.Logger) (audit.Recorder, func()) {
	noop := func() {}

	var sink audit.Recorder
	switch strings.ToLower(cfg.AuditBackend) {
	case "mongo":
		mongoClient, err := database.InitDB(cfg.DatabaseURL)
		if err != nil {
			logger.Error("main: mongo audit disabled", zap.Error(err))
			return audit.NoopRecorder{}, noop
		}
		repo := interactionsRepo.NewMongoInteractionRepo(mongoClient.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(); err != nil {
			logger.Warn("main: interaction indexes not created", zap.Error(err))
		}
		monitor.Register("mongo", database.Ping(mongoClient))
		sink = &audit.MongoRecorder{Repo: repo}
	case "supabase":
		sink = audit.NewSupabaseRecorder(client, cfg.CaptureRPC)
	default:
		logger.Info("main: audit capture disabled")
		return audit.NoopRecorder{}, noop
	}

	if !cfg.AuditAsync {
		return sink, noop
	}

	rdb, err := utils.NewQueueRedisClient(cfg)
	if err != nil {
		logger.Error("main: audit queue unavailable, capturing inline", zap.Error(err))
		return sink, noop
	}
	monitor.Register("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })

	redisOpt := cron.RedisOpt(cfg)
	queue := asynq.NewClient(redisOpt)
	worker := cron.InitAuditWorker(redisOpt, sink, logger.Named("audit"))

	return &audit.QueueRecorder{Client: queue}, func() {
		worker.Shutdown()
		if err := queue.Close(); err != nil {
			logger.Warn("main: audit queue client close failed", zap.Error(err))
		}
		_ = rdb.Close()
	}
}
