package router

import (
	"github.com/gin-gonic/gin"
	"github.com/stockflow/backend/internal/application/planlimit"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/interfaces/http/handler"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// defaultMaxBodyBytes bounds request bodies when EngineConfig leaves it unset.
const defaultMaxBodyBytes = 1 << 20

// EngineConfig holds the collaborators of the API engine
type EngineConfig struct {
	Logger         *zap.Logger
	ServiceName    string
	TracerProvider trace.TracerProvider
	CORSOrigins    []string
	TrustedProxies []string
	MaxBodyBytes   int64

	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Gate           *planlimit.Gate
}

// Handlers groups the API handlers
type Handlers struct {
	Health    *handler.HealthHandler
	Tenant    *handler.TenantHandler
	Team      *handler.TeamHandler
	Product   *handler.ProductHandler
	Warehouse *handler.WarehouseHandler
	Invoice   *handler.InvoiceHandler
}

// NewEngine builds the gin engine with the middleware chain and every API route.
// Creation routes are guarded by the plan-limit gate.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	middleware.SetupValidator()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.ServiceName, cfg.TracerProvider),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(maxBody),
	)

	engine.GET("/health", h.Health.Health)

	public := NewDomainGroup("invitations", "/invitations")
	public.POST("/accept", h.Team.AcceptInvitation)

	authenticated := []gin.HandlerFunc{
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:     cfg.JWTService,
			TokenBlacklist: cfg.TokenBlacklist,
			Logger:         log,
		}),
		middleware.TenantContext(),
		middleware.SpanEnricher(),
	}
	guard := func(limit billing.LimitType) gin.HandlerFunc {
		return middleware.RequirePlanLimit(cfg.Gate, limit)
	}

	tenant := NewDomainGroup("tenant", "/tenant").Use(authenticated...)
	tenant.GET("", h.Tenant.GetTenant)
	tenant.GET("/usage", h.Tenant.GetUsage)
	tenant.PUT("/plan", h.Tenant.ChangePlan)

	team := NewDomainGroup("team", "/team").Use(authenticated...)
	team.POST("/invitations", guard(billing.LimitUsers), h.Team.Invite)
	team.GET("/members", h.Team.ListMembers)

	products := NewDomainGroup("products", "/products").Use(authenticated...)
	products.POST("", guard(billing.LimitProducts), h.Product.Create)
	products.GET("", h.Product.List)

	warehouses := NewDomainGroup("warehouses", "/warehouses").Use(authenticated...)
	warehouses.POST("", guard(billing.LimitWarehouses), h.Warehouse.Create)
	warehouses.GET("", h.Warehouse.List)

	invoices := NewDomainGroup("invoices", "/invoices").Use(authenticated...)
	invoices.POST("", guard(billing.LimitInvoices), h.Invoice.Create)
	invoices.GET("", h.Invoice.List)

	NewRouter(engine).
		Register(public).
		Register(tenant).
		Register(team).
		Register(products).
		Register(warehouses).
		Register(invoices).
		Setup()

	return engine, nil
}
