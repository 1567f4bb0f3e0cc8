package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"startupmarket/internal/infrastructure/ratelimit"
	"startupmarket/pkg/errors"
	"startupmarket/pkg/logger"
	"startupmarket/pkg/response"
)

// RateLimit throttles requests per authenticated user, falling back to the
// client IP before authentication has run. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if uid, ok := c.Get("uid").(string); ok && uid != "" {
				key = "user:" + uid
			}

			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable: %v", err)
				return next(c)
			}

			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				logger.Warn("Rate limit exceeded for %s", key)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
