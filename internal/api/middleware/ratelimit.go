package middleware

import (
	"net/http"

	"github.com/mcoot/partygames/internal/api/apierr"
	"github.com/mcoot/partygames/internal/middleware"
)

// RateLimit rejects clients that exceed their request budget with a JSON 429
func RateLimit(limiter *middleware.ClientLimiter) func(http.Handler) http.Handler {
	return middleware.RateLimit(limiter, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewRateLimitedError())
	})
}
