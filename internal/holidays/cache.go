package holidays

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

// CachedCalendar fronts a Calendar with a redis day-key cache. Cache
// failures degrade to the inner calendar; only the inner calendar's
// errors propagate.
type CachedCalendar struct {
	inner  Calendar
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedCalendar wraps cal with a redis cache.
func NewCachedCalendar(cal Calendar, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedCalendar {
	if cal == nil {
		panic("holidays: inner calendar required")
	}
	if client == nil {
		panic("holidays: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedCalendar{inner: cal, client: client, ttl: ttl, logger: logger}
}

func cacheKey(date time.Time) string {
	return "holiday:" + date.Format("2006-01-02")
}

// IsPublicHoliday serves from redis when possible, falling back to the
// inner calendar and populating the cache on miss.
func (c *CachedCalendar) IsPublicHoliday(ctx context.Context, date time.Time) (bool, error) {
	key := cacheKey(date)
	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case err != redis.Nil:
		c.logger.Warn("holiday cache read failed", "key", key, "error", err)
	}

	holiday, err := c.inner.IsPublicHoliday(ctx, date)
	if err != nil {
		return false, err
	}

	value := "0"
	if holiday {
		value = "1"
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("holiday cache write failed", "key", key, "error", err)
	}
	return holiday, nil
}
