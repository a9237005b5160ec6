package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tywade1980/smart-incallservice/core"
)

const keyPrefix = "caller:"

// RedisStore is a core.CallerHistoryStore backed by a Redis hash per caller.
// Context updates follow a single-writer-per-key discipline (one call per
// caller at a time), so a plain read-modify-write is sufficient for the
// moving-average update.
type RedisStore struct {
	client *redis.Client
}

// RedisOptions configures the Redis client.
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (o RedisOptions) withDefaults() RedisOptions {
	out := o
	if out.DialTimeout <= 0 {
		out.DialTimeout = 3 * time.Second
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = 2 * time.Second
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = 2 * time.Second
	}
	return out
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	opts = opts.withDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client (useful for tests with
// miniredis or a shared pool).
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Get implements core.CallerHistoryStore.
func (s *RedisStore) Get(ctx context.Context, phoneNumber string) (*core.CallerHistory, error) {
	fields, err := s.client.HGetAll(ctx, keyPrefix+phoneNumber).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	hist := &core.CallerHistory{PhoneNumber: phoneNumber}
	if v, ok := fields["call_count"]; ok {
		hist.CallCount, _ = strconv.Atoi(v)
	}
	if v, ok := fields["avg_satisfaction"]; ok {
		hist.AverageSatisfaction, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := fields["last_call"]; ok {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			hist.LastCall = time.Unix(unix, 0).UTC()
		}
	}
	if v, ok := fields["vip"]; ok {
		hist.VIP = v == "1"
	}
	if v, ok := fields["preferred_language"]; ok {
		hist.PreferredLanguage = v
	}
	return hist, nil
}

// RecordCall implements core.CallerHistoryStore.
func (s *RedisStore) RecordCall(ctx context.Context, phoneNumber string, at time.Time, satisfaction *float64) error {
	key := keyPrefix + phoneNumber

	hist, err := s.Get(ctx, phoneNumber)
	if err != nil {
		return err
	}
	count := 0
	avg := 0.0
	if hist != nil {
		count = hist.CallCount
		avg = hist.AverageSatisfaction
	}
	if satisfaction != nil {
		avg = (avg*float64(count) + *satisfaction) / float64(count+1)
	}

	err = s.client.HSet(ctx, key, map[string]any{
		"call_count":       count + 1,
		"avg_satisfaction": strconv.FormatFloat(avg, 'f', -1, 64),
		"last_call":        at.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// SetVIP implements core.CallerHistoryStore.
func (s *RedisStore) SetVIP(ctx context.Context, phoneNumber string, vip bool) error {
	flag := "0"
	if vip {
		flag = "1"
	}
	if err := s.client.HSet(ctx, keyPrefix+phoneNumber, "vip", flag).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}
