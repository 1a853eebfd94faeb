package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters as expiring Redis keys, shared across instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig Redis 연결 설정
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore connects and pings before returning.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Increment(ctx context.Context, key, _ string, window time.Duration) (int64, time.Time, error) {
	k := s.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr: %w", err)
	}

	remaining := ttl.Val()
	// 새 키이거나 만료 시간이 없는 키
	if incr.Val() == 1 || remaining < 0 {
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis pexpire: %w", err)
		}
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
