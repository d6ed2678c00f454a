package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	billingapp "github.com/farmabill/backend/internal/application/billing"
	clientapp "github.com/farmabill/backend/internal/application/client"
	identityapp "github.com/farmabill/backend/internal/application/identity"
	"github.com/farmabill/backend/internal/infrastructure/auth"
	"github.com/farmabill/backend/internal/infrastructure/config"
	"github.com/farmabill/backend/internal/infrastructure/logger"
	"github.com/farmabill/backend/internal/interfaces/http/handler"
)

func newTestEngine() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-unit-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "farmabill-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	// Repositories are nil: these tests only exercise routing and the auth
	// boundary, which aborts before any handler touches a service.
	identityService := identityapp.NewService(nil, nil, jwtService, blacklist)
	clientService := clientapp.NewService(nil)
	transactionService := billingapp.NewTransactionService(nil, nil, nil)

	engine := New(Dependencies{
		Config:     cfg,
		Logger:     logger.New(config.LogConfig{Level: "error", Format: "console", Output: "stdout"}),
		JWTService: jwtService,
		Blacklist:  blacklist,

		Auth:        handler.NewAuthHandler(identityService),
		Clients:     handler.NewClientHandler(clientService),
		Transaction: handler.NewTransactionHandler(transactionService, nil, nil),
		Webhooks:    handler.NewWebhookHandler(nil),
		System:      handler.NewSystemHandler(),
	})
	return engine
}

func TestOpenEndpoints(t *testing.T) {
	h := newTestEngine()

	t.Run("health is open", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login rejects a bad body without requiring auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(w, req)
		// 400 proves the handler ran; a closed route would have returned 401
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	h := newTestEngine()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/pharmacies/me"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/clients"},
		{http.MethodPost, "/api/v1/clients"},
		{http.MethodGet, "/api/v1/clients/debtors"},
		{http.MethodGet, "/api/v1/transactions"},
		{http.MethodPost, "/api/v1/transactions"},
		{http.MethodGet, "/api/v1/transactions/overdue"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(r.method, r.path, nil)
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
