package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("JWT_ALGORITHM", " hs512 ")
	t.Setenv("NEEDS_FULFILLMENT_THRESHOLD", "0")
	t.Setenv("URGENCY_URL", "http://ml:5000/")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "", cfg.Database.Password)
	assert.Equal(t, 2*time.Hour, cfg.Middleware.JWT.ExpireDuration)
	assert.Equal(t, "HS512", cfg.Middleware.JWT.SigningMethod)
	assert.Equal(t, 0, cfg.Needs.FulfillmentThreshold)
	assert.Equal(t, "http://ml:5000", cfg.Urgency.BaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Middleware.CORS.AllowOrigins)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: production
database:
  dbname: ngo
  maxPoolSize: 4
needs:
  fulfillmentThreshold: 25
middleware:
  jwt:
    expireDuration: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "ngo", cfg.Database.DBName)
	assert.Equal(t, 4, cfg.Database.MaxPoolSize)
	assert.Equal(t, 25, cfg.Needs.FulfillmentThreshold)
	assert.Equal(t, 30*time.Minute, cfg.Middleware.JWT.ExpireDuration)
	// untouched keys keep their defaults
	assert.Equal(t, 3306, cfg.Database.Port)
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"address":":8081"},"redis":{"addr":"cache:6379"}}`), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, ":8081", cfg.Server.Address)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Username = "app"
	cfg.Database.Password = "pw"
	assert.Equal(t, "app:pw@tcp(127.0.0.1:3306)/samaajseva?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())

	cfg.Database.UseUnixSock = true
	cfg.Database.Host = "/var/run/mysqld/mysqld.sock"
	assert.Equal(t, "app:pw@unix(/var/run/mysqld/mysqld.sock)/samaajseva?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}
