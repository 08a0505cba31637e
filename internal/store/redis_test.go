package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Needs a reachable Redis; set REDIS_TEST_ADDR or run one on localhost:6379.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	s, err := NewRedisStore(&redis.Options{Addr: addr, DB: 9})
	if err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flushing test db: %v", err)
	}

	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStore_RecordContract(t *testing.T) {
	runRecordStoreContract(t, newTestRedisStore(t))
}

func TestRedisStore_TimerContract(t *testing.T) {
	runTimerRegistryContract(t, newTestRedisStore(t))
}
