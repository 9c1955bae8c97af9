package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/fypdash/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "dash"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "fypdash"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxOpenConns = 4
	cfg.Database.ConnMaxLifetime = "30m"
	return cfg
}

func TestBuildPoolConfig(t *testing.T) {
	poolConfig, err := buildPoolConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "fypdash", poolConfig.ConnConfig.Database)
	assert.Equal(t, int32(4), poolConfig.MaxConns)
	assert.Equal(t, 30*time.Minute, poolConfig.MaxConnLifetime)
	assert.NotNil(t, poolConfig.BeforeAcquire)
}

func TestBuildPoolConfig_InvalidLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := buildPoolConfig(cfg)
	assert.ErrorContains(t, err, "connection max lifetime")
}
