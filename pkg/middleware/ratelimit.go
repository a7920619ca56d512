package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"support-directory/pkg/apperr"
	"support-directory/pkg/utils"

	"go.uber.org/zap"
)

// Limiter counts a hit against key and reports apperr.CodeRateLimited with
// the wait when key is over its budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (time.Duration, error)
}

// RateLimit throttles requests per client IP under scope. A limiter failure
// lets the request through.
func RateLimit(limiter Limiter, scope string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			retry, err := limiter.Allow(r.Context(), scope+":"+ip)
			switch {
			case apperr.HasCode(err, apperr.CodeRateLimited):
				logger.Warn("Rate limit exceeded", zap.String("scope", scope), zap.String("ip", ip))
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				utils.ResponseTooManyRequests(w, "Too many attempts, try again later")
				return
			case err != nil:
				logger.Error("Failed to check rate limit", zap.Error(err), zap.String("scope", scope))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
