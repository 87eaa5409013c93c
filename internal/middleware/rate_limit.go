package middleware

import (
	"net/http"
	"sync"

	"campushub-server/internal/schemas"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit limits requests per client IP with a token bucket. It protects the
// credential endpoints against brute forcing. The limiter map grows with the
// number of distinct client addresses and is only reclaimed on restart.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(r, burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, &schemas.ErrorDTO{Error: *schemas.TooManyRequests})
			return
		}

		ctx.Next()
	}
}
