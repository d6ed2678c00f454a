package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmabill/backend/internal/domain/client"
	"github.com/farmabill/backend/internal/infrastructure/auth"
	"github.com/farmabill/backend/internal/infrastructure/config"
	"github.com/farmabill/backend/internal/infrastructure/logger"
	"github.com/farmabill/backend/internal/interfaces/http/handler"
	"github.com/farmabill/backend/internal/interfaces/http/middleware"
)

// Dependencies bundles everything the router needs to wire routes
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist

	Auth        *handler.AuthHandler
	Clients     *handler.ClientHandler
	Transaction *handler.TransactionHandler
	Webhooks    *handler.WebhookHandler
	System      *handler.SystemHandler
}

// New builds the gin engine with all middleware and routes registered.
// Everything under /api/v1 requires a Bearer token except registration,
// login, refresh, the gateway webhook and the health check.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.CORS(corsCfg),
	)

	api := engine.Group("/api/v1")

	// Open endpoints
	api.GET("/health", deps.System.Health)
	api.POST("/pharmacies", deps.Auth.RegisterPharmacy)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/refresh", deps.Auth.Refresh)
	api.POST("/webhooks/mercadopago", deps.Webhooks.MercadoPago)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(middleware.JWTAuthConfig{
		JWTService: deps.JWTService,
		Blacklist:  deps.Blacklist,
		Logger:     deps.Logger,
	}))

	protected.POST("/auth/logout", deps.Auth.Logout)
	protected.GET("/pharmacies/me", deps.Auth.GetPharmacy)

	clients := protected.Group("/clients")
	{
		clients.POST("", deps.Clients.Create)
		clients.GET("", deps.Clients.List)
		clients.GET("/debtors", deps.Clients.ListDebtors)
		clients.GET("/search", deps.Clients.List)
		clients.GET("/by-phone", deps.Clients.GetByPhone)
		clients.GET("/:id", deps.Clients.GetByID)
		clients.PUT("/:id", deps.Clients.Update)
		clients.DELETE("/:id", deps.Clients.Delete)
		clients.POST("/:id/credit-limit", deps.Clients.UpdateCreditLimit)
		clients.POST("/:id/activate", deps.Clients.ChangeStatus(client.StatusActive))
		clients.POST("/:id/deactivate", deps.Clients.ChangeStatus(client.StatusInactive))
		clients.POST("/:id/block", deps.Clients.ChangeStatus(client.StatusBlocked))
		clients.POST("/:id/suspend", deps.Clients.ChangeStatus(client.StatusSuspended))
		clients.POST("/:id/tags", deps.Clients.AddTag)
		clients.DELETE("/:id/tags/:tag", deps.Clients.RemoveTag)
		clients.GET("/:id/credit-score", deps.Clients.CreditScore)
	}

	transactions := protected.Group("/transactions")
	{
		transactions.POST("", deps.Transaction.Create)
		transactions.GET("", deps.Transaction.List)
		transactions.GET("/overdue", deps.Transaction.ListOverdue)
		transactions.GET("/:id", deps.Transaction.GetByID)
		transactions.POST("/:id/pay", deps.Transaction.MarkPaid)
		transactions.POST("/:id/cancel", deps.Transaction.Cancel)
		transactions.POST("/:id/refund", deps.Transaction.Refund)
		transactions.POST("/:id/fail", deps.Transaction.MarkFailed)
		transactions.POST("/:id/payment-link", deps.Transaction.CreatePaymentLink)
		transactions.POST("/:id/invoice", deps.Transaction.GenerateInvoice)
		transactions.GET("/:id/invoice", deps.Transaction.InvoiceDownloadURL)
	}

	return engine
}
