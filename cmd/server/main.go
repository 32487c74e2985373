package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	directoryapp "github.com/carehouse/backend/internal/application/directory"
	financeapp "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/infrastructure/cache"
	"github.com/carehouse/backend/internal/infrastructure/config"
	"github.com/carehouse/backend/internal/infrastructure/event"
	"github.com/carehouse/backend/internal/infrastructure/logger"
	"github.com/carehouse/backend/internal/infrastructure/migration"
	"github.com/carehouse/backend/internal/infrastructure/persistence"
	"github.com/carehouse/backend/internal/infrastructure/scheduler"
	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/carehouse/backend/internal/interfaces/http/handler"
	"github.com/carehouse/backend/internal/interfaces/http/middleware"
	"github.com/carehouse/backend/internal/interfaces/http/router"
	"github.com/carehouse/backend/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/carehouse/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Carehouse Backend API
//	@version		1.0
//	@description	Back-office API for care houses: revenue entries, staff payouts, check reconciliation, expenses and reports.

//	@contact.name	API Support
//	@contact.url	https://github.com/carehouse/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// OpenTelemetry: traces, metrics and the zap log bridge
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(rootCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = telemetry.BridgeLogger(log, loggerProvider, cfg.Telemetry.ServiceName, zap.InfoLevel)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Profiling.Enabled,
		ServerAddress:        cfg.Profiling.ServerAddress,
		ApplicationName:      cfg.Telemetry.ServiceName,
		ProfileTypes:         cfg.Profiling.ProfileTypes,
		MutexProfileFraction: cfg.Profiling.MutexProfileFraction,
		BlockProfileRate:     cfg.Profiling.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting Carehouse Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.App.AutoMigrate {
		if err := applyMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.MetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(rootCtx)
		defer dbMetrics.Stop()
	}

	payoutMetrics, err := telemetry.NewPayoutMetrics(telemetry.PayoutMetricsConfig{
		Meter:           meterProvider.Meter("carehouse.payouts"),
		Logger:          log,
		CollectInterval: cfg.Telemetry.BacklogInterval,
		BacklogProvider: telemetry.NewGormRecomputeBacklogProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize payout metrics", zap.Error(err))
	}
	payoutMetrics.StartPeriodicCollection(rootCtx, 0)
	defer payoutMetrics.Stop()

	// Initialize repositories
	houseRepo := persistence.NewGormHouseRepository(db.DB)
	serviceCodeRepo := persistence.NewGormServiceCodeRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	entryRepo := persistence.NewGormRevenueEntryRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	rateRepo := persistence.NewGormPayoutRateRepository(db.DB)
	jobRepo := persistence.NewGormPayoutRecomputeJobRepository(db.DB)
	checkRepo := persistence.NewGormCheckTrackingRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Rate table cache: Redis when configured, in-process otherwise
	rateCache := cache.NewRateTableCache(rootCtx, cfg.Redis, log)
	rateCache.StartInvalidation(rootCtx)
	defer func() {
		if err := rateCache.Close(); err != nil {
			log.Warn("Error closing rate table cache", zap.Error(err))
		}
	}()

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(financeapp.NewRateCacheInvalidationHandler(rateCache.Cache, log))

	// Initialize application services
	recomputer := financeapp.NewPayoutRecomputer(txScope, jobRepo, financeapp.RecomputeConfig{
		MaxRetries:  cfg.Recompute.MaxRetries,
		BaseBackoff: cfg.Recompute.BaseBackoff,
		InlineGrace: cfg.Recompute.InlineGrace,
	}, log)
	recomputer.SetEventPublisher(eventBus)
	recomputer.SetMetrics(payoutMetrics)

	entryService := financeapp.NewRevenueEntryService(
		entryRepo, payoutRepo, houseRepo, serviceCodeRepo, patientRepo, staffRepo,
		txScope, recomputer, log,
	)
	entryService.SetEventPublisher(eventBus)

	rateService := financeapp.NewPayoutRateService(rateRepo, houseRepo, serviceCodeRepo, staffRepo, txScope, log)
	rateService.SetEventPublisher(eventBus)
	rateService.SetMetrics(payoutMetrics)

	payoutService := financeapp.NewPayoutService(rateRepo, staffRepo, payoutRepo, log)
	payoutService.SetRateTableCache(rateCache.Cache)

	checkAuditService := financeapp.NewCheckAuditService(checkRepo, entryRepo, houseRepo, serviceCodeRepo, patientRepo, log)
	checkAuditService.SetMetrics(payoutMetrics)
	checkService := financeapp.NewCheckTrackingService(checkRepo, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	reportService := financeapp.NewReportService(entryRepo, payoutRepo, expenseRepo, staffRepo)
	directoryService := directoryapp.NewDirectoryService(houseRepo, serviceCodeRepo, staffRepo, patientRepo)

	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Background recompute retries
	var recomputeProcessor *event.RecomputeProcessor
	if cfg.Recompute.ProcessorEnabled {
		recomputeProcessor = event.NewRecomputeProcessor(jobRepo, recomputer, event.RecomputeProcessorConfig{
			BatchSize:        cfg.Recompute.BatchSize,
			PollInterval:     cfg.Recompute.PollInterval,
			StaleAfter:       cfg.Recompute.StaleAfter,
			CleanupEnabled:   true,
			CleanupRetention: cfg.Recompute.JobRetention,
		}, log.Named("recompute"))
		if err := recomputeProcessor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start recompute processor", zap.Error(err))
		}
	}

	// Nightly payout consistency sweep
	var sweep *scheduler.PayoutConsistencySweep
	if cfg.Sweep.Enabled {
		sweep, err = scheduler.NewPayoutConsistencySweep(entryRepo, recomputer, jobRepo, scheduler.PayoutSweepConfig{
			CronSpec: cfg.Sweep.CronSpec,
			Limit:    cfg.Sweep.Limit,
		}, log.Named("sweep"))
		if err != nil {
			log.Fatal("Failed to create payout sweep", zap.Error(err))
		}
		sweep.Start()
		log.Info("Payout consistency sweep scheduled", zap.Time("next_run", sweep.NextRun()))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register decimal and uuid validators and JSON field names for binding errors
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware order matters: request id first so every later layer can log it,
	// recovery before anything that may panic, tracing before metrics so metrics
	// carry the span.
	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetricsWithMeter(meterProvider.Meter("http.server"), meterProvider.IsEnabled(), log),
		middleware.ProfilingWithConfig(middleware.ProfilingConfig{
			Enabled:          profiler.IsEnabled(),
			SkipPaths:        []string{"/health"},
			SkipPathPrefixes: []string{"/swagger"},
		}),
	)

	// Health check endpoint (outside API versioning)
	engine.GET("/health", handler.NewHealthHandler(db, version).Health)

	// Swagger documentation, hidden unless enabled
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Forced recomputes and batch rate saves are throttled per client
	limiter := middleware.NewRateLimiter(30, time.Minute)
	limiter.StartCleanup(rootCtx)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, router.Handlers{
		RevenueEntries: handler.NewRevenueEntryHandler(entryService),
		Payouts:        handler.NewPayoutHandler(payoutService, rateService),
		Checks:         handler.NewCheckHandler(checkService, checkAuditService),
		Expenses:       handler.NewExpenseHandler(expenseService),
		Reports:        handler.NewReportHandler(reportService),
		Directory:      handler.NewDirectoryHandler(directoryService),
	}, middleware.RateLimit(limiter))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Stop background work before the database closes
	if sweep != nil {
		if err := sweep.Stop(ctx); err != nil {
			log.Warn("Payout sweep did not stop cleanly", zap.Error(err))
		}
	}
	if recomputeProcessor != nil {
		if err := recomputeProcessor.Stop(ctx); err != nil {
			log.Warn("Recompute processor did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	stopBackground()

	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler did not stop cleanly", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(ctx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// applyMigrations runs the embedded schema migrations against db
func applyMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.SQLDB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return m.Up()
}
