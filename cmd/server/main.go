package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	lendingapp "github.com/creditline/backend/internal/application/lending"
	partnerapp "github.com/creditline/backend/internal/application/partner"
	"github.com/creditline/backend/internal/domain/lending"
	"github.com/creditline/backend/internal/domain/shared"
	"github.com/creditline/backend/internal/infrastructure/cache"
	"github.com/creditline/backend/internal/infrastructure/config"
	"github.com/creditline/backend/internal/infrastructure/logger"
	"github.com/creditline/backend/internal/infrastructure/migration"
	"github.com/creditline/backend/internal/infrastructure/persistence"
	"github.com/creditline/backend/internal/infrastructure/telemetry"
	"github.com/creditline/backend/internal/interfaces/http/handler"
	"github.com/creditline/backend/internal/interfaces/http/middleware"
	"github.com/creditline/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot, _ := logger.NewForEnvironment(os.Getenv("CREDIT_APP_ENV"))
		boot.Fatal("Failed to load configuration", zap.Error(err))
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	}

	// Bootstrap logger, replaced below once the OTLP logs bridge exists
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Start(ctx, telemetrySettings(cfg), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("Error shutting down telemetry", zap.Error(err))
		}
	}()

	if providers.LogsEnabled() {
		log, err = logger.New(logCfg, providers.ZapCore())
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting credit service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Timezone),
	)

	// Database with a zap backed GORM logger
	gormLog := logger.NewGormLogger(log,
		logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowQueryThreshold),
	)
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := migrateUp(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	creditRepo := persistence.NewGormCreditRepository(db.DB)

	// Application services
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid timezone", zap.Error(err))
	}
	customerService := partnerapp.NewCustomerService(customerRepo)
	creditService := lendingapp.NewCreditService(
		creditRepo,
		customerService,
		lending.NewValidator(shared.NewSystemClock(loc)),
		lending.UUIDGenerator{},
	)

	creditMetrics, err := telemetry.NewCreditMetricsFromProvider(providers)
	if err != nil {
		log.Fatal("Failed to create credit metrics", zap.Error(err))
	}
	creditService.SetRecorder(creditMetrics)

	// Idempotency-Key guard on credit submission
	var idempotency gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		store := cache.NewIdempotencyStore(ctx, &cfg.Redis, log)
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("Error closing idempotency store", zap.Error(err))
			}
		}()
		idempotency = middleware.Idempotency(store, cfg.Idempotency.TTL)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID so every later layer can log and echo it
	// 2. Logger and Recovery
	// 3. Security headers and CORS
	// 4. BodyLimit before any handler reads the body
	// 5. Tracing, then the span enrichers that run inside it
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if providers.TracingEnabled() {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}

	r := router.Mount(engine, router.Handlers{
		Credit:   handler.NewCreditHandler(creditService),
		Customer: handler.NewCustomerHandler(customerService),
		System:   handler.NewSystemHandler(cfg.App.Name, db),
	}, idempotency)
	for _, route := range r.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func telemetrySettings(cfg *config.Config) telemetry.Settings {
	tc := cfg.Telemetry
	return telemetry.Settings{
		ServiceName:     tc.ServiceName,
		Endpoint:        tc.CollectorEndpoint,
		Insecure:        tc.Insecure,
		Traces:          tc.Enabled,
		SamplingRatio:   tc.SamplingRatio,
		Metrics:         tc.MetricsEnabled,
		MetricsInterval: tc.MetricsInterval,
		Logs:            tc.LogsEnabled,
	}
}

// migrateUp applies the embedded schema. The migrator is not closed because
// closing its postgres driver closes the shared pool as well.
func migrateUp(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.SQL()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, "", log)
	if err != nil {
		return err
	}
	return m.Up()
}
