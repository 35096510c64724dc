package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiustore/backend/internal/domain/identity"
	"github.com/qiustore/backend/internal/domain/shared"
	"github.com/qiustore/backend/internal/infrastructure/auth"
	"github.com/qiustore/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"
	JWTRoleKey   = "jwt_role"
	AuthHeader   = "Authorization"
	BearerPrefix = "Bearer "
)

// RequireAuth validates the Bearer token and stores its claims in context
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeader)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Authentication required")
			return
		}

		token := strings.TrimPrefix(header, BearerPrefix)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := jwtService.Validate(token)
		if err != nil {
			message := "Invalid token"
			if err == auth.ErrExpiredToken {
				message = "Token has expired"
			}
			abortUnauthorized(c, message)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTRoleKey, claims.Role)
		c.Next()
	}
}

// RequireSales rejects callers without the sales role. It must run after
// RequireAuth.
func RequireSales() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != identity.RoleSales {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(shared.CodeForbidden, "Sales role required"))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeUnauthorized, message))
}

// GetClaims retrieves JWT claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetRole retrieves the authenticated user's role from context
func GetRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
