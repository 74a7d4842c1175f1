package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/files_manager", cfg.Storage.FolderPath)
	assert.Equal(t, SessionRedis, cfg.Session.Backend)
	assert.Equal(t, "auth_", cfg.Session.KeyPrefix)
	assert.Equal(t, 100*time.Millisecond, cfg.MQ.EnqueueTimeout)
	assert.Equal(t, 30*time.Second, cfg.Storage.WriteTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVICE_PORT", "8080")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("RABBITMQ_ENQUEUE_TIMEOUT", "250ms")
	t.Setenv("FOLDER_PATH", "/var/lib/files")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.MQ.EnqueueTimeout)
	assert.Equal(t, "/var/lib/files", cfg.Storage.FolderPath)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: s3
s3:
  bucket: uploads
  region: eu-west-1
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageS3, cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.S3.Bucket)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage backend", env: map[string]string{"STORAGE_BACKEND": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"STORAGE_BACKEND": "s3"}},
		{name: "jwt without secret", env: map[string]string{"SESSION_BACKEND": "jwt"}},
		{name: "non numeric port", env: map[string]string{"SERVICE_PORT": "http"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	c := Config{
		DB: DB{User: "u", Password: "p@ss", Name: "files", Host: "h", Port: "5432"},
		MQ: MQ{User: "guest", Password: "guest", Host: "mq", AmqpPort: "5672", Vhost: "/"},
	}

	dsn, err := c.DBDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p%40ss@h:5432/files", dsn)

	amqp, err := c.AMQPDSN()
	require.NoError(t, err)
	assert.Equal(t, "amqp://guest:guest@mq:5672/%2F", amqp)

	_, err = Config{}.DBDSN()
	require.Error(t, err)
	_, err = Config{}.AMQPDSN()
	require.Error(t, err)
}
