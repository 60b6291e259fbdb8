// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
app:
  name: "remotehire"
database:
  postgres:
    host: "localhost"
    database: "remotehire"
    user: "app"
  redis:
    address: "localhost:6379"
rate_limit:
  enabled: true
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeTempConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 8000, cfg.Notifications.SendTimeout)
	assert.Equal(t, 80, cfg.Notifications.DailyLimit)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileValidation(t *testing.T) {
	_, err := LoadFromFile(writeTempConfig(t, `
database:
  postgres:
    host: "localhost"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.database")
}

func TestRateLimitRequiresRedis(t *testing.T) {
	_, err := LoadFromFile(writeTempConfig(t, `
database:
  postgres:
    host: "localhost"
    database: "remotehire"
    user: "app"
rate_limit:
  enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.address")
}

func TestSecretsComeFromEnvironment(t *testing.T) {
	t.Setenv("SELF_DESTRUCT_PASSWORD", "from-env")
	t.Setenv("ADMIN_TOKEN", "token-from-env")

	cfg, err := LoadFromFile(writeTempConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SelfDestruct.Password)
	assert.Equal(t, "token-from-env", cfg.Admin.Token)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 8*time.Second, GetDuration(8000))
}
