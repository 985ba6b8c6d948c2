package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
)

const (
	// ContextKeyClaims and ContextKeyUser are where the gate leaves
	// the authenticated identity for downstream handlers.
	ContextKeyClaims = "auth_claims"
	ContextKeyUser   = "auth_user"

	accessTokenCookie = "access_token"
)

// TokenValidator is the slice of TokenService the gate needs.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (*models.Claims, error)
}

// AuthMiddleware is the request-time gate: extract a token (header
// wins over cookie), decode it, check revocation, resolve the user.
// It mutates nothing.
func AuthMiddleware(validator TokenValidator, userRepo repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("auth_middleware")
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, log, domainErrors.ErrMissingToken)
			return
		}

		claims, err := validator.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, log, domainErrors.ErrInvalidToken)
			return
		}
		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// abortUnauthorized flattens every failure cause to one client-facing
// message; the real cause goes to the log only.
func abortUnauthorized(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("request rejected",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "Unauthorized",
		"code":  "unauthorized",
	})
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*models.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.Claims)
	return claims, ok
}

// UserFromContext returns the user stored by AuthMiddleware.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
