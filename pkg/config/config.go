// Package config reads runtime configuration from the environment.
//
// [Load] first merges a .env file from the working directory, when present,
// into the process environment, then reads the variables below. Unset or
// malformed values fall back to their defaults.
//
//	REPOINSIGHT_STORE     memory | file | redis | mongo (default memory)
//	REPOINSIGHT_JOBS_DIR  directory for the file store
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
//	MONGO_URI, MONGO_DATABASE
//	GEMINI_API_KEY, GEMINI_MODEL (default gemini-2.0-flash)
//	LLM_TIMEOUT           per-call generation timeout (default 60s)
//	REPOINSIGHT_WORKERS   concurrent manifest parsers (default 4)
//	INFERENCE_POOL_SIZE   models kept loaded (default 4)
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/explain"
	"github.com/matzehuels/repoinsight/pkg/inference"
	"github.com/matzehuels/repoinsight/pkg/job"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Config is the resolved runtime configuration.
type Config struct {
	Store   string
	JobsDir string
	Redis   job.RedisConfig
	Mongo   job.MongoConfig

	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	Workers  int
	PoolSize int
}

// Load reads .env, if present, and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		Store:   strings.ToLower(firstNonEmpty(get("REPOINSIGHT_STORE"), StoreMemory)),
		JobsDir: get("REPOINSIGHT_JOBS_DIR"),
		Redis: job.RedisConfig{
			Addr:     get("REDIS_ADDR"),
			Password: getenv("REDIS_PASSWORD"),
			DB:       intOr(get("REDIS_DB"), 0),
		},
		Mongo: job.MongoConfig{
			URI:      get("MONGO_URI"),
			Database: get("MONGO_DATABASE"),
		},
		GeminiAPIKey: get("GEMINI_API_KEY"),
		GeminiModel:  firstNonEmpty(get("GEMINI_MODEL"), inference.DefaultGeminiModel),
		LLMTimeout:   durationOr(get("LLM_TIMEOUT"), explain.DefaultTimeout),
		Workers:      intOr(get("REPOINSIGHT_WORKERS"), deps.DefaultWorkers),
		PoolSize:     intOr(get("INFERENCE_POOL_SIZE"), inference.DefaultPoolSize),
	}

	switch cfg.Store {
	case StoreMemory, StoreFile, StoreRedis, StoreMongo:
	default:
		return nil, fmt.Errorf("REPOINSIGHT_STORE: unknown store %q", cfg.Store)
	}
	return cfg, nil
}

// OpenStore connects the configured job store. The returned close function
// releases its connections.
func (c *Config) OpenStore(ctx context.Context) (job.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Store {
	case StoreFile:
		s, err := job.NewFileStore(c.JobsDir)
		return s, noop, err
	case StoreRedis:
		s, err := job.NewRedisStore(ctx, c.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case StoreMongo:
		s, err := job.NewMongoStore(ctx, c.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return job.NewMemoryStore(), noop, nil
}

// Loader returns the Gemini loader when an API key is configured and the
// offline loader otherwise.
func (c *Config) Loader() inference.Loader {
	if c.GeminiAPIKey == "" {
		return inference.OfflineLoader{}
	}
	return inference.GeminiLoader{APIKey: c.GeminiAPIKey, Model: c.GeminiModel}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intOr(raw string, def int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}

// durationOr accepts Go durations ("90s") and bare seconds ("90").
func durationOr(raw string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
