package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps records as JSON strings with a TTL, so Purge has nothing to do
type RedisStore struct {
	client *redis.Client
	prefix string
}

// DialRedis connects using a redis:// URL and pings the server
func DialRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: RedisKeyPrefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save uses SET NX so two racing writers cannot both win
func (s *RedisStore) Save(ctx context.Context, rec *Record) (*Record, bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, false, err
	}
	ttl := time.Until(rec.ExpiresAt)
	if rec.ExpiresAt.IsZero() || ttl <= 0 {
		ttl = DefaultTTL
	}

	ok, err := s.client.SetNX(ctx, s.key(rec.Key), data, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if ok {
		stored := *rec
		return &stored, true, nil
	}

	existing, err := s.Get(ctx, rec.Key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// expired between SETNX and GET
		return s.Save(ctx, rec)
	}
	return existing, false, nil
}

func (s *RedisStore) Purge(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
