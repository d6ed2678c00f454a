package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/farmabill/backend/internal/application/billing"
	clientapp "github.com/farmabill/backend/internal/application/client"
	identityapp "github.com/farmabill/backend/internal/application/identity"
	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/infrastructure/auth"
	"github.com/farmabill/backend/internal/infrastructure/cache"
	"github.com/farmabill/backend/internal/infrastructure/config"
	"github.com/farmabill/backend/internal/infrastructure/invoice"
	"github.com/farmabill/backend/internal/infrastructure/logger"
	"github.com/farmabill/backend/internal/infrastructure/payment"
	"github.com/farmabill/backend/internal/infrastructure/persistence"
	"github.com/farmabill/backend/internal/infrastructure/storage"
	"github.com/farmabill/backend/internal/interfaces/http/handler"
	"github.com/farmabill/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	gormLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabase(cfg.Database, log, gormLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	blacklist, idempotencyStore := buildRedisBacked(cfg, log)

	clientRepo := persistence.NewGormClientRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	pharmacyRepo := persistence.NewGormPharmacyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)

	gateway, err := payment.NewMercadoPagoAdapter(cfg.MercadoPago)
	if err != nil {
		log.Fatal("Failed to configure payment gateway", zap.Error(err))
	}

	documentStore, err := storage.NewDocumentStore(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to configure document storage", zap.Error(err))
	}
	renderer, err := invoice.NewHTMLRenderer()
	if err != nil {
		log.Fatal("Failed to load invoice template", zap.Error(err))
	}

	uow := persistence.NewGormUnitOfWork(db.DB)

	clientService := clientapp.NewService(clientRepo)
	transactionService := billingapp.NewTransactionService(transactionRepo, clientRepo, uow)
	paymentService := billingapp.NewPaymentService(transactionRepo, clientRepo, gateway, idempotencyStore, uow)
	invoiceService := billingapp.NewInvoiceService(transactionRepo, clientRepo, pharmacyRepo, renderer, documentStore)
	identityService := identityapp.NewService(pharmacyRepo, userRepo, jwtService, blacklist)

	engine := router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		Blacklist:  blacklist,

		Auth:        handler.NewAuthHandler(identityService),
		Clients:     handler.NewClientHandler(clientService),
		Transaction: handler.NewTransactionHandler(transactionService, paymentService, invoiceService),
		Webhooks:    handler.NewWebhookHandler(paymentService),
		System:      handler.NewSystemHandler(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting HTTP server",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// buildRedisBacked wires the token blacklist and webhook idempotency store
// against Redis, falling back to in-memory stores when Redis is not
// reachable. Single-instance deployments run fine without Redis.
func buildRedisBacked(cfg *config.Config, log *zap.Logger) (auth.TokenBlacklist, shared.IdempotencyStore) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not reachable, using in-memory token blacklist and idempotency store",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err))
		return auth.NewInMemoryTokenBlacklist(), cache.NewInMemoryIdempotencyStore()
	}

	return auth.NewRedisTokenBlacklist(client), cache.NewRedisIdempotencyStore(client, "")
}
