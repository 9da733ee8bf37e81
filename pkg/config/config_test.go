package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/repoinsight/pkg/inference"
	"github.com/matzehuels/repoinsight/pkg/job"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.IsType(t, inference.OfflineLoader{}, cfg.Loader())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"REPOINSIGHT_STORE":   "Redis",
		"REDIS_ADDR":          "cache:6379",
		"REDIS_DB":            "2",
		"GEMINI_API_KEY":      "k",
		"LLM_TIMEOUT":         "90",
		"REPOINSIGHT_WORKERS": "8",
		"INFERENCE_POOL_SIZE": "bogus",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, inference.GeminiLoader{APIKey: "k", Model: "gemini-2.0-flash"}, cfg.Loader())
}

func TestFromEnvRejectsUnknownStore(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"REPOINSIGHT_STORE": "sqlite"}))
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "jobs")
	cfg := &Config{Store: StoreFile, JobsDir: dir}
	s, closeFn, err := cfg.OpenStore(context.Background())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &job.FileStore{}, s)
	_, err = os.Stat(dir)
	assert.NoError(t, err)

	cfg.Store = StoreMemory
	s, _, err = cfg.OpenStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &job.MemoryStore{}, s)
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, 2*time.Minute, durationOr("2m", time.Second))
	assert.Equal(t, time.Second, durationOr("-5", time.Second))
	assert.Equal(t, time.Second, durationOr("", time.Second))
}
