package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	usageKeyPrefix       = "debate:usage:"
	usageFieldPractice   = "practice"
	usageFieldRealDebate = "real_debate"
)

// RedisUsageStore implements UsageRepository with one Redis hash per owner.
// HINCRBY makes every increment atomic without client-side locking.
type RedisUsageStore struct {
	rdb *redis.Client
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisUsage connects to Redis and verifies the connection.
func NewRedisUsage(ctx context.Context, opts RedisOptions) (*RedisUsageStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisUsageStore{rdb: rdb}, nil
}

func usageKey(owner string) string {
	return usageKeyPrefix + owner
}

func usageField(category domain.UsageCategory) (string, error) {
	switch category {
	case domain.UsagePractice:
		return usageFieldPractice, nil
	case domain.UsageRealDebate:
		return usageFieldRealDebate, nil
	default:
		return "", domain.NewInputError("category", fmt.Sprintf("unknown category %q", category))
	}
}

// IncrementUsage adds seconds to one counter and reads both back in the same transaction.
func (s *RedisUsageStore) IncrementUsage(ctx context.Context, owner string, category domain.UsageCategory, seconds int64) (domain.UsageRecord, error) {
	field, err := usageField(category)
	if err != nil {
		return domain.UsageRecord{}, err
	}

	key := usageKey(owner)
	var all *redis.MapStringStringCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, field, seconds)
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		return domain.UsageRecord{}, storageErr("increment usage", err)
	}

	return usageFromHash(owner, all.Val())
}

// GetUsage returns the owner's counters, or nil when the hash does not exist.
func (s *RedisUsageStore) GetUsage(ctx context.Context, owner string) (*domain.UsageRecord, error) {
	vals, err := s.rdb.HGetAll(ctx, usageKey(owner)).Result()
	if err != nil {
		return nil, storageErr("get usage", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	rec, err := usageFromHash(owner, vals)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Ping verifies Redis connectivity.
func (s *RedisUsageStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisUsageStore) Close() error {
	return s.rdb.Close()
}

func usageFromHash(owner string, vals map[string]string) (domain.UsageRecord, error) {
	rec := domain.UsageRecord{Owner: owner}
	var err error
	if v, ok := vals[usageFieldPractice]; ok {
		if rec.PracticeSeconds, err = strconv.ParseInt(v, 10, 64); err != nil {
			return domain.UsageRecord{}, storageErr("parse practice counter", err)
		}
	}
	if v, ok := vals[usageFieldRealDebate]; ok {
		if rec.RealDebateSeconds, err = strconv.ParseInt(v, 10, 64); err != nil {
			return domain.UsageRecord{}, storageErr("parse real debate counter", err)
		}
	}
	return rec, nil
}
