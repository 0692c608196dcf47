package schedule

import (
	"sync"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
)

// Clock returns the current time. Tests inject a fixed or stepping clock.
type Clock func() time.Time

type cachedSchedule struct {
	schedule  models.WeeklySchedule
	fetchedAt time.Time
}

// Cache keeps at most one weekly schedule per company for ttl.
type Cache struct {
	mu      sync.Mutex
	entries map[int]cachedSchedule
	ttl     time.Duration
	now     Clock
	onSize  func(int)
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now.
func WithClock(now Clock) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithSizeObserver is called with the entry count after every change.
func WithSizeObserver(fn func(int)) CacheOption {
	return func(c *Cache) { c.onSize = fn }
}

func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[int]cachedSchedule),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the schedule when it was stored less than ttl ago. Stale entries are dropped.
func (c *Cache) Get(companyID int) (models.WeeklySchedule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[companyID]
	if !ok {
		return models.WeeklySchedule{}, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, companyID)
		c.reportSize()
		return models.WeeklySchedule{}, false
	}
	return entry.schedule, true
}

// Put replaces the company's entry, stamped with the current time.
func (c *Cache) Put(companyID int, schedule models.WeeklySchedule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[companyID] = cachedSchedule{schedule: schedule, fetchedAt: c.now()}
	c.reportSize()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int]cachedSchedule)
	c.reportSize()
}

// Len counts entries, stale ones included until their next lookup.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// reportSize must be called with mu held.
func (c *Cache) reportSize() {
	if c.onSize != nil {
		c.onSize(len(c.entries))
	}
}
