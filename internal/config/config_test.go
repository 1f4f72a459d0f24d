package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-copilot-go/internal/constants"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeTempConfig(t, `
server:
  address: ":9000"
redis:
  address: "redis.internal:6379"
  db: 2
match:
  score_cache_ttl_hours: 12
  feed_cache_ttl_minutes: 30
logger:
  level: "debug"
  format: "pretty"
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 12*time.Hour, cfg.Match.ScoreCacheTTL())
	assert.Equal(t, 30*time.Minute, cfg.Match.FeedCacheTTL())
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("RAPIDAPI_KEY", "rapid-from-env")

	path := writeTempConfig(t, `
openai:
  api_key: "sk-from-file"
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "rapid-from-env", cfg.JobSource.APIKey)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
server: {}
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 10, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, constants.MatchScoreCacheTTL, cfg.Match.ScoreCacheTTL())
	assert.Equal(t, constants.JobFeedCacheTTL, cfg.Match.FeedCacheTTL())
}
