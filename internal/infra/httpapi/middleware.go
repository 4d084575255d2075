package httpapi

import (
	"net/http"
	"strings"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	"github.com/aqsa08/training-mvp-backend/internal/domain/org"

	"github.com/gin-gonic/gin"
)

const authClaimsKey = "authClaims"

// AuthMiddleware guards the admin API with bearer tokens and the paid-org
// requirement.
type AuthMiddleware struct {
	authService *app.AuthService
	orgRepo     org.Repository
}

func NewAuthMiddleware(authService *app.AuthService, orgRepo org.Repository) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, orgRepo: orgRepo}
}

// RequireAuth verifies the Authorization bearer token and stores its claims
// on the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
			return
		}

		claims, err := m.authService.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// RequirePaidOrg rejects requests from orgs that have not paid with 402.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequirePaidOrg() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || claims.OrganizationID == nil {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"code": "PAYMENT_REQUIRED", "message": "Organization not active"})
			return
		}

		o, err := m.orgRepo.GetByID(c.Request.Context(), *claims.OrganizationID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"code": "ORG_NOT_FOUND"})
			return
		}
		if !o.IsPaid {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"code": "PAYMENT_REQUIRED"})
			return
		}

		c.Next()
	}
}

// claimsFrom fetches the verified auth claims set by RequireAuth, nil when
// the request is unauthenticated.
func claimsFrom(c *gin.Context) *app.AuthClaims {
	v, ok := c.Get(authClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*app.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// orgIDFrom returns the caller's organization id, false when the token
// carries none.
func orgIDFrom(c *gin.Context) (int64, bool) {
	claims := claimsFrom(c)
	if claims == nil || claims.OrganizationID == nil {
		return 0, false
	}
	return *claims.OrganizationID, true
}
