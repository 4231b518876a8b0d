package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

// IdempotencyState is the outcome of claiming an idempotency key.
type IdempotencyState int

const (
	// IdempotencyNew means the caller owns the key and must Complete or Abort it.
	IdempotencyNew IdempotencyState = iota
	// IdempotencyInFlight means another request holds the key.
	IdempotencyInFlight
	// IdempotencyDone means the key already maps to a stored result.
	IdempotencyDone
)

const pendingMarker = "pending"

type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key string) (IdempotencyState, string, error)
	Complete(ctx context.Context, scope, key, result string) error
	Abort(ctx context.Context, scope, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type idempotencyStore struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewIdempotencyStore(log *logger.Logger, opts Options) (IdempotencyStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewIdempotencyStoreWithClient(log, rdb, opts.TTL, opts.Prefix), nil
}

// NewIdempotencyStoreWithClient wraps an existing client.
func NewIdempotencyStoreWithClient(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration, prefix string) IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if prefix == "" {
		prefix = "idem"
	}
	return &idempotencyStore{
		log:    log.With("service", "RedisIdempotencyStore"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (s *idempotencyStore) redisKey(scope, key string) string {
	return s.prefix + ":" + scope + ":" + key
}

func (s *idempotencyStore) Begin(ctx context.Context, scope, key string) (IdempotencyState, string, error) {
	if s == nil || s.rdb == nil {
		return IdempotencyNew, "", fmt.Errorf("redis idempotency store not initialized")
	}
	rk := s.redisKey(scope, key)
	ok, err := s.rdb.SetNX(ctx, rk, pendingMarker, s.ttl).Result()
	if err != nil {
		return IdempotencyNew, "", fmt.Errorf("redis setnx: %w", err)
	}
	if ok {
		return IdempotencyNew, "", nil
	}
	val, err := s.rdb.Get(ctx, rk).Result()
	if errors.Is(err, goredis.Nil) {
		// expired between SETNX and GET; treat as held and let the client retry
		return IdempotencyInFlight, "", nil
	}
	if err != nil {
		return IdempotencyNew, "", fmt.Errorf("redis get: %w", err)
	}
	if val == pendingMarker {
		return IdempotencyInFlight, "", nil
	}
	return IdempotencyDone, val, nil
}

func (s *idempotencyStore) Complete(ctx context.Context, scope, key, result string) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis idempotency store not initialized")
	}
	return s.rdb.Set(ctx, s.redisKey(scope, key), result, s.ttl).Err()
}

func (s *idempotencyStore) Abort(ctx context.Context, scope, key string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, s.redisKey(scope, key)).Err()
}

func (s *idempotencyStore) Ping(ctx context.Context) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis idempotency store not initialized")
	}
	return s.rdb.Ping(ctx).Err()
}

func (s *idempotencyStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
