package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/folio/internal/application/service"
	"github.com/bravo68web/folio/pkg/logger"
)

// ClaimsContextKey is the gin context key the validated admin claims are stored under
const ClaimsContextKey = "admin_claims"

// TokenValidator verifies an admin bearer token
type TokenValidator interface {
	Validate(token string) (*service.AdminClaims, error)
}

// AuthMiddleware guards the admin endpoints
type AuthMiddleware struct {
	tokens TokenValidator
	log    *logger.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance
func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		log:    logger.Get().WithFields(logger.Component("auth-middleware")),
	}
}

// RequireAdmin rejects requests without a valid admin bearer token
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			m.log.Warn("Admin access attempted without token",
				logger.Path(c.Request.URL.Path),
				logger.Method(c.Request.Method),
				logger.ClientIP(c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			m.log.Warn("Admin token rejected",
				logger.Path(c.Request.URL.Path),
				logger.ClientIP(c.ClientIP()),
				logger.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		m.log.Debug("Admin authenticated",
			logger.String("subject", claims.Subject),
			logger.Path(c.Request.URL.Path),
		)
		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// GetClaims returns the admin claims set by RequireAdmin
func GetClaims(c *gin.Context) *service.AdminClaims {
	if v, ok := c.Get(ClaimsContextKey); ok {
		if claims, ok := v.(*service.AdminClaims); ok {
			return claims
		}
	}
	return nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
