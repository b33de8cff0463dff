package bootstrap

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRateLimiter limits a route per client IP with a Redis-backed counter.
// rate uses the limiter format, e.g. "10-M". When the rate or the store
// cannot be built, or Redis fails later on, requests go through unlimited.
func NewRateLimiter(client *redis.Client, rate, routeID string, log logrus.FieldLogger) gin.HandlerFunc {
	limiterInstance, err := newLimiter(client, rate, routeID)
	if err != nil {
		log.WithError(err).WithField("route", routeID).Warn("rate limiter disabled")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return ginmiddleware.NewMiddleware(limiterInstance,
		ginmiddleware.WithKeyGetter(func(c *gin.Context) string {
			return c.ClientIP()
		}),
		ginmiddleware.WithErrorHandler(func(c *gin.Context, err error) {
			log.WithError(err).WithField("route", routeID).Warn("rate limiter unavailable")
			c.Next()
		}),
	)
}

func newLimiter(client *redis.Client, rate, routeID string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}
	if client == nil {
		return nil, fmt.Errorf("no redis client for route %s", routeID)
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for route %s: %w", routeID, err)
	}
	return limiter.New(store, parsed), nil
}
