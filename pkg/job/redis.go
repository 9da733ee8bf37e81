package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long finished and abandoned jobs stay in Redis.
const DefaultRedisTTL = 7 * 24 * time.Hour

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c RedisConfig) WithDefaults() RedisConfig {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "repoinsight:job:"
	}
	if c.TTL <= 0 {
		c.TTL = DefaultRedisTTL
	}
	return c
}

// RedisStore stores jobs as JSON strings in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	cfg = cfg.WithDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, cfg RedisConfig) *RedisStore {
	cfg = cfg.WithDefaults()
	return &RedisStore{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Create(ctx context.Context, j *Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return storageErr(err, "encode", j.ID)
	}
	ok, err := s.client.SetNX(ctx, s.key(j.ID), data, s.ttl).Result()
	if err != nil {
		return storageErr(err, "create", j.ID)
	}
	if !ok {
		return storageErr(fmt.Errorf("already exists"), "create", j.ID)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get", id)
	}
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, storageErr(err, "decode", id)
	}
	return &j, nil
}

// maxUpdateAttempts bounds how often Update retries after the watched key
// changed under it.
const maxUpdateAttempts = 3

// Update rewrites the job inside an optimistic transaction so concurrent
// writers never interleave a read and a write. A transaction that loses the
// race is retried up to [maxUpdateAttempts] times.
func (s *RedisStore) Update(ctx context.Context, id string, u Update) error {
	key := s.key(id)
	return retryOnConflict(maxUpdateAttempts, func() error {
		return s.update(ctx, key, id, u)
	})
}

func (s *RedisStore) update(ctx context.Context, key, id string, u Update) error {
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return notFound(id)
		}
		if err != nil {
			return storageErr(err, "get", id)
		}
		var j Job
		if err := json.Unmarshal(data, &j); err != nil {
			return storageErr(err, "decode", id)
		}
		u.Apply(&j)
		out, err := json.Marshal(&j)
		if err != nil {
			return storageErr(err, "encode", id)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err != nil {
			return storageErr(err, "update", id)
		}
		return nil
	}, key)
}

// retryOnConflict calls fn until it returns something other than a WATCH
// conflict or attempts run out, and returns the last error.
func retryOnConflict(attempts int, fn func() error) error {
	var err error
	for range attempts {
		if err = fn(); !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
