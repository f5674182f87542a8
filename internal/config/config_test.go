package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dm-server", cfg.ServiceName)
	assert.Equal(t, ":8090", cfg.Addr())
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SignedSessions())
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_POSTGRESQL_WRITE_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_POSTGRESQL_WRITE_DSN")
}

func TestLoadRequiresURIForMongo(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MONGO")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			StorageDriver:       StorageMemory,
			BcryptCost:          10,
			SessionTTL:          time.Hour,
			LoginRateLimitRPS:   1,
			LoginRateLimitBurst: 1,
		}
	}

	cfg := base()
	cfg.StorageDriver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.BcryptCost = 4
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.EnableTracing = true
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.SessionSigningSecret = "s3cret"
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.SignedSessions())
}
