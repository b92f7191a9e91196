package auth

import (
	"net/http"
	"strings"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

const (
	ContextAddressKey = "auth.address"
	ContextClaimsKey  = "auth.claims"
)

type TokenVerifier interface {
	Verify(raw string) (Claims, error)
}

// RequireAuth resolves the bearer credential, preferring the cookie over the
// Authorization header, and stores the caller's address on the context.
func RequireAuth(tokens TokenVerifier, revoked RevocationList, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c, cookieName)
		if raw == "" {
			unauthorized(c, "token not found")
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			unauthorized(c, "invalid token")
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.TokenId)
		if err != nil {
			logger.Default().Error(err, "Could not check token revocation")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"code":    reasoncodes.ErrUpstreamFailure,
				"error":   "authentication backend unavailable",
			})
			return
		}
		if isRevoked {
			unauthorized(c, "token revoked")
			return
		}

		c.Set(ContextAddressKey, strings.ToLower(claims.Address))
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    reasoncodes.ErrUnauthorized,
		"error":   message,
	})
}

func AddressFromContext(c *gin.Context) string {
	return c.GetString(ContextAddressKey)
}

func ClaimsFromContext(c *gin.Context) (Claims, bool) {
	value, ok := c.Get(ContextClaimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := value.(Claims)
	return claims, ok
}
