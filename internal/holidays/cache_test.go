package holidays

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noyou75/GitlabsApp-Backend-sub000/pkg/logging"
)

type countingCalendar struct {
	stubCalendar
	calls int
}

func (c *countingCalendar) IsPublicHoliday(ctx context.Context, date time.Time) (bool, error) {
	c.calls++
	return c.stubCalendar.IsPublicHoliday(ctx, date)
}

func TestCachedCalendarPopulatesAndServes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingCalendar{stubCalendar: stubCalendar{days: map[string]bool{"2026-07-04": true}}}
	cal := NewCachedCalendar(inner, client, time.Hour, logging.Default())

	day := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		holiday, err := cal.IsPublicHoliday(context.Background(), day)
		require.NoError(t, err)
		assert.True(t, holiday)
	}
	assert.Equal(t, 1, inner.calls, "second and third lookups hit the cache")

	cached, err := mr.Get("holiday:2026-07-04")
	require.NoError(t, err)
	assert.Equal(t, "1", cached)
}

func TestCachedCalendarNegativeEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingCalendar{}
	cal := NewCachedCalendar(inner, client, time.Hour, logging.Default())

	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	holiday, err := cal.IsPublicHoliday(context.Background(), day)
	require.NoError(t, err)
	assert.False(t, holiday)

	holiday, err = cal.IsPublicHoliday(context.Background(), day)
	require.NoError(t, err)
	assert.False(t, holiday)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedCalendarFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	inner := &countingCalendar{stubCalendar: stubCalendar{days: map[string]bool{"2026-07-04": true}}}
	cal := NewCachedCalendar(inner, client, time.Hour, logging.Default())

	holiday, err := cal.IsPublicHoliday(context.Background(), time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, holiday)
	assert.Equal(t, 1, inner.calls)
}
