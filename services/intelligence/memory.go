package ai

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/go-redis/redis/v8"
)

const memoryPrefix = "agent:memory:"

// DefaultMaxTurns is how many exchanges a session keeps.
const DefaultMaxTurns = 4

// MemoryStore keeps the most recent turns of each conversation.
type MemoryStore interface {
	History(ctx context.Context, sessionID int) ([]models.ConversationTurn, error)
	Append(ctx context.Context, sessionID int, turn models.ConversationTurn) error
	Clear(ctx context.Context, sessionID int) error
}

// RedisMemoryStore keeps each session as a capped Redis list that expires after ttl of inactivity.
type RedisMemoryStore struct {
	client   *redis.Client
	ttl      time.Duration
	maxTurns int
}

func NewRedisMemoryStore(client *redis.Client, ttl time.Duration, maxTurns int) *RedisMemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &RedisMemoryStore{client: client, ttl: ttl, maxTurns: maxTurns}
}

func memoryKey(sessionID int) string {
	return memoryPrefix + strconv.Itoa(sessionID)
}

func (s *RedisMemoryStore) History(ctx context.Context, sessionID int) ([]models.ConversationTurn, error) {
	items, err := s.client.LRange(ctx, memoryKey(sessionID), int64(-s.maxTurns), -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	turns := make([]models.ConversationTurn, 0, len(items))
	for _, item := range items {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisMemoryStore) Append(ctx context.Context, sessionID int, turn models.ConversationTurn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return err
	}
	key := memoryKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, b)
	pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisMemoryStore) Clear(ctx context.Context, sessionID int) error {
	return s.client.Del(ctx, memoryKey(sessionID)).Err()
}

// InMemoryStore is the process-local fallback used when Redis is not configured.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[int][]models.ConversationTurn
	maxTurns int
	onSize   func(int)
}

// NewInMemoryStore creates a store. onSize, if set, receives the session count after each change.
func NewInMemoryStore(maxTurns int, onSize func(int)) *InMemoryStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &InMemoryStore{
		sessions: make(map[int][]models.ConversationTurn),
		maxTurns: maxTurns,
		onSize:   onSize,
	}
}

func (s *InMemoryStore) History(_ context.Context, sessionID int) ([]models.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.sessions[sessionID]
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *InMemoryStore) Append(_ context.Context, sessionID int, turn models.ConversationTurn) error {
	s.mu.Lock()
	turns := append(s.sessions[sessionID], turn)
	if len(turns) > s.maxTurns {
		turns = append([]models.ConversationTurn(nil), turns[len(turns)-s.maxTurns:]...)
	}
	s.sessions[sessionID] = turns
	n := len(s.sessions)
	s.mu.Unlock()

	s.report(n)
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, sessionID int) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	n := len(s.sessions)
	s.mu.Unlock()

	s.report(n)
	return nil
}

func (s *InMemoryStore) report(n int) {
	if s.onSize != nil {
		s.onSize(n)
	}
}
