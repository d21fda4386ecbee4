package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/stockflow/backend/internal/application/catalog"
	financeapp "github.com/stockflow/backend/internal/application/finance"
	identityapp "github.com/stockflow/backend/internal/application/identity"
	partnerapp "github.com/stockflow/backend/internal/application/partner"
	"github.com/stockflow/backend/internal/application/planlimit"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/persistence"
	"github.com/stockflow/backend/internal/infrastructure/persistence/tenant"
	"github.com/stockflow/backend/internal/infrastructure/telemetry"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting StockFlow API",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	quotaLoc, err := cfg.Quota.Location()
	if err != nil {
		log.Fatal("Invalid quota timezone", zap.String("timezone", cfg.Quota.Timezone), zap.Error(err))
	}

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = providers.BridgeLogger(log, cfg.Telemetry.ServiceName)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		TracerProvider:  providers.TracerProvider(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	tenantDB := tenant.NewTenantDB(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(tenantDB)
	productRepo := persistence.NewGormProductRepository(tenantDB)
	warehouseRepo := persistence.NewGormWarehouseRepository(tenantDB)
	invoiceRepo := persistence.NewGormInvoiceRepository(tenantDB)
	counter := persistence.NewGormResourceCounter(db.DB)

	gate := planlimit.NewGate(tenantRepo, counter,
		planlimit.WithLogger(log),
		planlimit.WithLocation(quotaLoc),
		planlimit.WithMeterProvider(providers.MeterProvider()),
	)

	blacklist, closeBlacklist := newTokenBlacklist(ctx, cfg.Redis, log)
	defer closeBlacklist()

	// Application services
	tenantService := identityapp.NewTenantService(tenantRepo, log)
	invitationService := identityapp.NewInvitationService(userRepo, log)
	productService := catalogapp.NewProductService(productRepo)
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, tenantRepo,
		financeapp.WithInvoiceLocation(quotaLoc),
		financeapp.WithInvoiceLogger(log),
	)

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracerProvider: providers.TracerProvider(),
		CORSOrigins:    cfg.HTTP.CORSAllowOrigins,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		JWTService:     auth.NewJWTService(cfg.JWT),
		TokenBlacklist: blacklist,
		Gate:           gate,
	}, router.Handlers{
		Health:    handler.NewHealthHandler(db),
		Tenant:    handler.NewTenantHandler(tenantService, gate),
		Team:      handler.NewTeamHandler(invitationService),
		Product:   handler.NewProductHandler(productService),
		Warehouse: handler.NewWarehouseHandler(warehouseService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist connects to Redis when enabled and otherwise keeps revoked
// tokens in memory. A Redis outage at startup degrades to memory.
func newTokenBlacklist(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (auth.TokenBlacklist, func()) {
	if !cfg.Enabled {
		log.Info("Redis disabled, using in-memory token blacklist")
		return auth.NewInMemoryTokenBlacklist(), func() {}
	}

	client, err := auth.NewRedisClient(ctx, cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return auth.NewInMemoryTokenBlacklist(), func() {}
	}
	log.Info("Token blacklist backed by Redis", zap.String("addr", cfg.Addr()))
	return auth.NewRedisTokenBlacklist(client), func() {
		if err := client.Close(); err != nil {
			log.Warn("Error closing Redis client", zap.Error(err))
		}
	}
}
