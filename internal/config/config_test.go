package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
jwt:
  secret_key: s3cret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "localhost:8081", cfg.HTTPServer.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, MailConsole, cfg.Mail.Backend)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.True(t, cfg.Enrollment.AutoApproveEnabled())
	assert.False(t, cfg.Notifications.Async)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, "elastic", cfg.ES.Username)
	assert.Equal(t, 3, cfg.ES.MaxRetries)
}

func TestLoadExplicitManualApproval(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
jwt:
  secret_key: s3cret
enrollment:
  auto_approve: false
notifications:
  async: true
minio:
  endpoint: localhost:9000
  buckets:
    images:
      name: course-images
      presign_ttl: 1h
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Enrollment.AutoApproveEnabled())
	assert.True(t, cfg.Notifications.Async)
	assert.Equal(t, "course-images", cfg.Minio.Buckets[BucketImages].Name)
	assert.Equal(t, time.Hour, cfg.Minio.Buckets[BucketImages].PresignTTL)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown driver":       "storage:\n  driver: sqlite\njwt:\n  secret_key: x\n",
		"sendgrid without key": "storage:\n  driver: memory\njwt:\n  secret_key: x\nmail:\n  backend: sendgrid\n",
		"missing jwt secret":   "storage:\n  driver: memory\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
