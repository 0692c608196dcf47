package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adriel2503/agente-reserva/models"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mondayOnly(hours string) models.WeeklySchedule {
	var s models.WeeklySchedule
	s.Days[0] = hours
	return s
}

func TestCacheTTLBoundary(t *testing.T) {
	ttl := 5 * time.Minute
	tests := []struct {
		name    string
		elapsed time.Duration
		hit     bool
	}{
		{"fresh", 0, true},
		{"just before ttl", ttl - time.Nanosecond, true},
		{"exactly ttl", ttl, false},
		{"after ttl", ttl + time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
			cache := NewCache(ttl, WithClock(clock.Now))
			cache.Put(7, mondayOnly("09:00-18:00"))

			clock.Advance(tt.elapsed)
			got, ok := cache.Get(7)

			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.Equal(t, "09:00-18:00", got.Days[0])
				assert.Equal(t, 1, cache.Len())
			} else {
				assert.Equal(t, 0, cache.Len(), "stale entry must be evicted")
			}
		})
	}
}

func TestCachePutReplaces(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	cache := NewCache(5*time.Minute, WithClock(clock.Now))

	cache.Put(1, mondayOnly("09:00-18:00"))
	clock.Advance(4 * time.Minute)
	cache.Put(1, mondayOnly("10:00-14:00"))
	clock.Advance(4 * time.Minute)

	got, ok := cache.Get(1)
	require.True(t, ok, "replacement restarts the ttl")
	assert.Equal(t, "10:00-14:00", got.Days[0])
	assert.Equal(t, 1, cache.Len())
}

func TestCacheMissAndClear(t *testing.T) {
	var sizes []int
	cache := NewCache(time.Minute, WithSizeObserver(func(n int) { sizes = append(sizes, n) }))

	_, ok := cache.Get(42)
	assert.False(t, ok)

	cache.Put(1, models.WeeklySchedule{})
	cache.Put(2, models.WeeklySchedule{})
	cache.Clear()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, []int{1, 2, 0}, sizes)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			cache.Put(id%5, mondayOnly("09:00-18:00"))
			if s, ok := cache.Get(id % 5); ok {
				assert.Equal(t, "09:00-18:00", s.Days[0])
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Len())
}
