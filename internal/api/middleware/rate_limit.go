package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"whiteboard-service/pkg/logger"
	"whiteboard-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a sliding window counter. services.RedisService implements it.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type RateLimitMiddleware struct {
	limiter RateLimiter
	logger  *logger.Logger
}

func NewRateLimitMiddleware(limiter RateLimiter, log *logger.Logger) *RateLimitMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  log,
	}
}

// RateLimitIP limits requests per client IP and route. A limiter error lets the request through.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.limiter == nil || requests <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.FullPath())

		allowed, err := rm.limiter.CheckRateLimit(c.Request.Context(), key, requests, window)
		if err != nil {
			rm.logger.Warn("Rate limit check failed, allowing request", "clientIP", c.ClientIP(), "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited)
			return
		}

		c.Next()
	}
}
