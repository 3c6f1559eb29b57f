package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vitabuhq/vitabu-backend/cmd/docs"
	portssvc "github.com/vitabuhq/vitabu-backend/internal/core/ports/services"
	"github.com/vitabuhq/vitabu-backend/internal/middleware"
	"github.com/vitabuhq/vitabu-backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, services.Auth)

	// Gateway callbacks are public by necessity; they get their own rate
	// limited group instead of the auth middleware.
	registerMpesaCallbackRoutes(r, cfg, services.Callback)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerTenantRoutes(v1, services.Tenant)

	// Everything below is scoped to one tenant; the tenant id is always an
	// explicit path parameter, never inferred.
	tenants := v1.Group("/tenants/:tenant_id")
	registerAccountRoutes(tenants, services.Account)
	registerInvoiceRoutes(tenants, services.Invoice)
	registerPaymentRoutes(tenants, services.Payment)
	registerLedgerRoutes(tenants, services.Ledger)
}

// registerMpesaCallbackRoutes sets up the public M-Pesa callback endpoints.
func registerMpesaCallbackRoutes(r *gin.Engine, cfg *config.Config, callbackSvc portssvc.CallbackSvcFacade) {
	rate, err := limiter.NewRateFromFormatted(cfg.CallbackRateLimit)
	if err != nil {
		rate = limiter.Rate{Period: time.Minute, Limit: 60}
	}
	limiterInstance := limiter.New(memorystore.NewStore(), rate)

	callbacks := r.Group("/callbacks/mpesa", middleware.RateLimit(limiterInstance))
	h := newMpesaHandler(callbackSvc)
	callbacks.POST("/stk", h.stkCallback)
	callbacks.POST("/c2b/confirmation", h.c2bConfirmation)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
