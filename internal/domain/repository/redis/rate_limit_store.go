package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWithExpiry increments the counter and starts the window only on
// the first increment, all in one server-side step. A pipeline of
// INCR+EXPIRE would reset the window on every attempt and is not
// atomic with respect to concurrent callers.
var incrWithExpiry = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RateLimitStore is the Redis-backed attempt counter used by the rate
// limiter.
type RateLimitStore struct {
	client *redis.Client
}

func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// IncrementWithExpiry atomically increments key and returns the new
// count. The TTL is set only when the key is created, so the window
// rolls from the first increment.
func (s *RateLimitStore) IncrementWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := incrWithExpiry.Run(ctx, s.client, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	return count, nil
}

// Delete clears the counter for key.
func (s *RateLimitStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit counter: %w", err)
	}
	return nil
}
