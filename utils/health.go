package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Status    string    `json:"status"`
	Redis     string    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

const (
	RedisDisabled = "disabled"
	RedisUp       = "up"
	RedisDown     = "down"
)

var (
	currentHealth = HealthStatus{Status: "ok", Redis: RedisDisabled}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings the given client and stores the result. A nil client reports Redis as disabled.
func CheckHealth(ctx context.Context, client *redis.Client) HealthStatus {
	status := HealthStatus{Status: "ok", Redis: RedisDisabled, CheckedAt: time.Now()}
	if client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			status.Status = "degraded"
			status.Redis = RedisDown
		} else {
			status.Redis = RedisUp
		}
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, client *redis.Client, interval time.Duration) {
	CheckHealth(ctx, client)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, client)
			}
		}
	}()
}
