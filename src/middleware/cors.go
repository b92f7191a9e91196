package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type CorsConfigJson struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type CorsConfig struct {
	AllowedOrigins []string
}

func (ccj CorsConfigJson) ConvertToDomain() CorsConfig {
	origins := make([]string, 0, len(ccj.AllowedOrigins))
	for _, origin := range ccj.AllowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	return CorsConfig{AllowedOrigins: origins}
}

func (cc CorsConfig) allows(origin string) bool {
	for _, allowed := range cc.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// CORSMiddleware echoes allowed origins back so the browser wallet frontend
// can send the token cookie.
func CORSMiddleware(cfg CorsConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && cfg.allows(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
