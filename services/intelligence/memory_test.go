package ai

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(i int) models.ConversationTurn {
	return models.ConversationTurn{User: fmt.Sprintf("q%d", i), Assistant: fmt.Sprintf("a%d", i)}
}

func TestInMemoryStoreKeepsLastTurns(t *testing.T) {
	var sizes []int
	store := NewInMemoryStore(2, func(n int) { sizes = append(sizes, n) })
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Append(ctx, 1, turn(i)))
	}
	require.NoError(t, store.Append(ctx, 2, turn(9)))

	history, err := store.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q2", history[0].User)
	assert.Equal(t, "q3", history[1].User)

	require.NoError(t, store.Clear(ctx, 1))
	history, _ = store.History(ctx, 1)
	assert.Empty(t, history)
	assert.Equal(t, []int{1, 1, 1, 2, 1}, sizes)
}

func TestInMemoryStoreDefaultsMaxTurns(t *testing.T) {
	store := NewInMemoryStore(0, nil)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.Append(context.Background(), 1, turn(i)))
	}

	history, _ := store.History(context.Background(), 1)
	assert.Len(t, history, DefaultMaxTurns)
}

func TestRedisMemoryStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisMemoryStore(client, time.Minute, 2)
	sessionID := int(time.Now().UnixNano() % 1_000_000)
	defer store.Clear(ctx, sessionID)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Append(ctx, sessionID, turn(i)))
	}

	history, err := store.History(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q2", history[0].User)

	ttl, err := client.TTL(ctx, memoryKey(sessionID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
