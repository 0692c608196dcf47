package utils

import (
	"context"
	"time"

	"github.com/Adriel2503/agente-reserva/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MemoryClient holds conversation history when REDIS_ADDR is configured.
var MemoryClient *redis.Client

// InitMemoryRedis connects the conversation memory client. With no address configured
// it leaves MemoryClient nil and the caller falls back to in-process memory.
func InitMemoryRedis(ctx context.Context) error {
	if config.AppConfig.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisMemoryDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return err
	}
	MemoryClient = client
	GetLogger().Info("Connected to Redis (Memory)",
		zap.String("addr", config.AppConfig.RedisAddr),
		zap.Int("db", config.AppConfig.RedisMemoryDB),
	)
	return nil
}

// GetMemoryClient returns the memory client, or nil when Redis is not in use.
func GetMemoryClient() *redis.Client {
	return MemoryClient
}

// CloseMemoryRedis releases the memory client if one was opened.
func CloseMemoryRedis() {
	if MemoryClient == nil {
		return
	}
	if err := MemoryClient.Close(); err != nil {
		GetLogger().Warn("Failed to close Redis (Memory)", zap.Error(err))
	}
	MemoryClient = nil
}
