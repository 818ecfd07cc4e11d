package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://localhost:3000",
	"http://127.0.0.1:3000",
}

// CORS middleware for handling cross-origin requests
func CORS(extraOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(defaultCORSOrigins)+len(extraOrigins))
	for _, o := range defaultCORSOrigins {
		allowed[o] = true
	}
	for _, o := range extraOrigins {
		allowed[strings.TrimSpace(o)] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case origin == "":
		case allowed[origin] || allowed["*"]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		case isLocalOrigin(origin):
			// For development, still allow localhost variations
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// isLocalOrigin reports whether origin's host is exactly localhost or 127.0.0.1
func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
