package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmabill/backend/internal/domain/shared"
	"github.com/farmabill/backend/internal/infrastructure/auth"
	"github.com/farmabill/backend/internal/interfaces/http/dto"
)

// Context keys populated by the JWT middleware
const (
	ClaimsKey     = "jwt_claims"
	PharmacyIDKey = "pharmacy_id"
	UserIDKey     = "user_id"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTAuthConfig configures the JWT middleware
type JWTAuthConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; when set, revoked tokens are rejected
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// JWTAuth authenticates requests with a Bearer access token and stores the
// tenant and user ids in the gin context for handlers.
func JWTAuth(cfg JWTAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderKey)
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(header, bearerPrefix)

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail open: a blacklist outage should not take down the API
				if cfg.Logger != nil {
					cfg.Logger.Error("token blacklist check failed",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			} else if revoked {
				abortUnauthorized(c, "token has been revoked")
				return
			}
		}

		pharmacyID, err := claims.PharmacyUUID()
		if err != nil {
			abortUnauthorized(c, "invalid tenant in token")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, "invalid user in token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(PharmacyIDKey, pharmacyID)
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeUnauthorized, message, c.GetString(RequestIDContextKey)))
}

// PharmacyID returns the authenticated tenant id, or uuid.Nil when the
// request was not authenticated.
func PharmacyID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(PharmacyIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// UserID returns the authenticated user id, or uuid.Nil
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// AccessToken returns the raw bearer token of the request, or ""
func AccessToken(c *gin.Context) string {
	header := c.GetHeader(authHeaderKey)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}
	return ""
}
