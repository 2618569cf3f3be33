package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goden-Gun/diary-client/pkg/retry"
)

func TestClientConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DIARY_NODE_ID", "")
	t.Setenv("HOSTNAME", "host-a")
	cfg := &ClientConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "host-a", cfg.App.NodeID)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, "ko", cfg.API.Language)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.NotNil(t, cfg.Retry.Exponential)
	assert.True(t, *cfg.Retry.Exponential)
	assert.Equal(t, "memory", cfg.Token.Backend)
	assert.Equal(t, "diary:auth:", cfg.Token.Prefix)
	assert.Equal(t, "disabled", cfg.Tracing.Exporter)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestRetryConfigOptionsKeepZeroDelay(t *testing.T) {
	exp := false
	zero := Millis(0)
	cfg := RetryConfig{MaxAttempts: 5, BaseDelayMillis: &zero, MaxDelayMillis: 250, Exponential: &exp}
	assert.Len(t, cfg.Options(), 4)
	assert.Equal(t, 250*time.Millisecond, cfg.MaxDelayMillis.Duration())

	p := retry.DefaultPolicy()
	for _, opt := range cfg.Options() {
		opt(&p)
	}
	assert.Zero(t, p.BaseDelay)
	assert.Equal(t, 5, p.MaxAttempts)

	negative := Millis(-5)
	neg := RetryConfig{BaseDelayMillis: &negative}
	neg.ApplyDefaults()
	assert.Zero(t, *neg.BaseDelayMillis)
	assert.Equal(t, 3, neg.MaxAttempts)

	unset := RetryConfig{}
	unset.ApplyDefaults()
	assert.Equal(t, time.Second, unset.BaseDelayMillis.Duration())
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://diary.example.com
  timeout: 10
retry:
  max_attempts: 4
  base_delay_ms: 200
  exponential: false
token:
  backend: redis
  clock_skew: 30
`), 0o600))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("DIARYTEST_API_USER_AGENT", "diaryctl/test")

	cfg := &ClientConfig{}
	require.NoError(t, LoadConfig(cfg, LoadOptions{ConfigFile: path, EnvPrefix: "DIARYTEST"}))

	assert.Equal(t, "https://diary.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, "diaryctl/test", cfg.API.UserAgent)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.BaseDelayMillis.Duration())
	require.NotNil(t, cfg.Retry.Exponential)
	assert.False(t, *cfg.Retry.Exponential)
	assert.Equal(t, "redis", cfg.Token.Backend)
	assert.Equal(t, 30*time.Second, cfg.Token.ClockSkew.Duration())
}

func TestLoadConfigEnvOnly(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DIARYENV_API_BASE_URL", "http://api.local")
	t.Setenv("DIARYENV_RETRY_MAX_ATTEMPTS", "2")

	cfg := &ClientConfig{}
	err := LoadConfig(cfg, LoadOptions{ConfigPath: t.TempDir(), EnvPrefix: "DIARYENV", AllowNoConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "http://api.local", cfg.API.BaseURL)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	cfg := &ClientConfig{}
	err := LoadConfig(cfg, LoadOptions{ConfigPath: t.TempDir()})
	require.Error(t, err)
}

func TestSecrets(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pw")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0o600))

	t.Setenv("DIARY_TEST_SECRET", "from-env")
	assert.Equal(t, "from-env", GetSecretOrEnv("DIARY_TEST_SECRET", "def"))
	t.Setenv("DIARY_TEST_SECRET_FILE", file)
	assert.Equal(t, "from-file", GetSecretOrEnv("DIARY_TEST_SECRET", "def"))
	assert.Equal(t, "def", GetSecretOrEnv("DIARY_TEST_UNSET_SECRET", "def"))

	var kept, required string
	kept = "configured"
	err := ApplySecrets([]SecretDefinition{{Name: "DIARY_TEST_UNSET_SECRET", Target: &kept}})
	require.NoError(t, err)
	assert.Equal(t, "configured", kept)

	err = ApplySecrets([]SecretDefinition{{Name: "DIARY_TEST_UNSET_SECRET", Target: &required, Required: true}})
	var notFound *SecretNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "DIARY_TEST_UNSET_SECRET", notFound.Name)

	assert.Panics(t, func() { MustGetSecret("DIARY_TEST_UNSET_SECRET") })
}

func TestNodeIDPrefersExplicitEnv(t *testing.T) {
	t.Setenv("DIARY_NODE_ID", "node-7")
	t.Setenv("HOSTNAME", "host-a")
	assert.Equal(t, "node-7", GetNodeID("DIARY_NODE_ID"))

	cfg := &ClientConfig{App: AppConfig{NodeID: "from-file"}}
	cfg.ApplyDefaults()
	assert.Equal(t, "from-file", cfg.App.NodeID)

	t.Setenv("DIARY_NODE_ID", "")
	t.Setenv("HOSTNAME", "")
	assert.Empty(t, GetNodeID("DIARY_NODE_ID"))
}
