package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/taxdesk/backend/internal/application/ingestion"
	reconapp "github.com/taxdesk/backend/internal/application/recon"
	"github.com/taxdesk/backend/internal/domain/recon"
	"github.com/taxdesk/backend/internal/infrastructure/auth"
	"github.com/taxdesk/backend/internal/infrastructure/cache"
	"github.com/taxdesk/backend/internal/infrastructure/config"
	"github.com/taxdesk/backend/internal/infrastructure/extraction"
	"github.com/taxdesk/backend/internal/infrastructure/logger"
	"github.com/taxdesk/backend/internal/infrastructure/persistence"
	"github.com/taxdesk/backend/internal/infrastructure/storage"
	"github.com/taxdesk/backend/internal/infrastructure/telemetry"
	"github.com/taxdesk/backend/internal/interfaces/http/handler"
	"github.com/taxdesk/backend/internal/interfaces/http/middleware"
	"github.com/taxdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting taxdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	if tracerProvider.IsEnabled() {
		if err := db.EnableTracing(cfg.Database.DBName); err != nil {
			log.Warn("failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("database connected")

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	txRepo := persistence.NewGormBankTransactionRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)

	// Statement dedupe store: redis, with in-memory fallback outside production
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}

	extractor := extraction.NewOpenAIExtractor(
		cfg.Extraction.OpenAIAPIKey,
		cfg.Extraction.Model,
		extraction.RetryPolicy{
			MaxAttempts: cfg.Extraction.RetryAttempts,
			BaseDelay:   cfg.Extraction.RetryBaseDelay,
			Multiplier:  cfg.Extraction.RetryMultiplier,
		},
		extraction.WithRequestTimeout(cfg.Extraction.RequestTimeout),
	)

	docStorage, err := newDocumentStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize document storage", zap.Error(err))
	}

	scorer := recon.NewMatchScorer(recon.ScorerParams{
		ExactAmountTolerance: decimal.NewFromFloat(cfg.Recon.ExactAmountTolerance),
		NearAmountTolerance:  decimal.NewFromFloat(cfg.Recon.NearAmountTolerance),
		DateWindowDays:       cfg.Recon.DateWindowDays,
	})
	reconciler, err := recon.NewReconciler(scorer, recon.Thresholds{
		AutoAccept: cfg.Recon.AutoAcceptThreshold,
		Suggest:    cfg.Recon.SuggestThreshold,
	})
	if err != nil {
		log.Fatal("invalid reconciliation configuration", zap.Error(err))
	}

	// Application services
	invoiceService := reconapp.NewInvoiceService(invoiceRepo)
	transactionService := reconapp.NewTransactionService(txRepo)
	ledgerService := reconapp.NewLedgerService(ledgerRepo)
	reconciliationService := reconapp.NewReconciliationService(invoiceRepo, txRepo, ledgerRepo, reconciler)
	statementService := ingestion.NewStatementService(txRepo, extractor, docStorage, idempotencyStore, log)
	invoiceImportService := ingestion.NewInvoiceImportService(invoiceRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}

	engine.Use(middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/ready",
		},
		Logger: log,
	}))

	// After auth so the limiter key can be scoped to the caller's tenant.
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(db.Ping)).
		Register(handler.NewInvoiceHandler(invoiceService, invoiceImportService)).
		Register(handler.NewTransactionHandler(transactionService)).
		Register(handler.NewReconciliationHandler(reconciliationService)).
		Register(handler.NewLedgerHandler(ledgerService)).
		Register(handler.NewStatementHandler(statementService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}

// newDocumentStorage picks the storage backend from configuration. The stub
// keeps local development working without S3 credentials.
func newDocumentStorage(cfg *config.Config, log *zap.Logger) (ingestion.DocumentStorage, error) {
	switch cfg.Storage.Provider {
	case "s3":
		return storage.NewS3DocumentStorage(&cfg.Storage)
	default:
		log.Warn("using in-memory document storage", zap.String("provider", cfg.Storage.Provider))
		return storage.NewStubDocumentStorage(), nil
	}
}
