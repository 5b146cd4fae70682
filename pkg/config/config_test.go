package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("MAX_IMAGE_SIZE", "1024")
	t.Setenv("POST_MIN_TITLE_LENGTH", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, int64(1024), cfg.MaxImageSize)
	assert.Equal(t, 1, cfg.PostMinTitleLength)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "host=db user=testuser password=testpass dbname=testdb port=5432 sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("IMAGE_STORE", "")
	t.Setenv("MAX_IMAGE_SIZE", "")
	t.Setenv("POST_MIN_TITLE_LENGTH", "")
	t.Setenv("POST_MIN_CONTENT_LENGTH", "")
	t.Setenv("HOME_POST_LIMIT", "")
	t.Setenv("SNIPPET_LENGTH", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("RABBITMQ_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.StorageDriver)
	assert.Equal(t, ImageStoreDisk, cfg.ImageStore)
	assert.Equal(t, int64(5242880), cfg.MaxImageSize)
	assert.Equal(t, 5, cfg.PostMinTitleLength)
	assert.Equal(t, 20, cfg.PostMinContentLength)
	assert.Equal(t, 3, cfg.HomePostLimit)
	assert.Equal(t, 150, cfg.SnippetLength)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.RabbitMQEnabled())
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidNumber(t *testing.T) {
	t.Setenv("MAX_IMAGE_SIZE", "five")

	_, err := Load()
	assert.Error(t, err)
}
