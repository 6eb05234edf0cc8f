package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nem-uma-a-menos/counter-api/internal/config"
)

// CORS permits cross-origin reads of the public counter data.
func CORS(cfg *config.Config) gin.HandlerFunc {
	origin := "*"
	if len(cfg.AllowedOrigins) > 0 {
		origin = strings.Join(cfg.AllowedOrigins, ", ")
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
