package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 999, cfg.RateLimit.LoginPerHour)
	assert.False(t, cfg.RevenueCat.EnforceAuth)
	assert.Equal(t, 0, cfg.Premium.SweepHour)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("REDIS_ENABLED", "TRUE")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PREMIUM_SWEEP_HOUR", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3, cfg.Premium.SweepHour)
}

func TestValidateProductionSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateSweepHour(t *testing.T) {
	t.Setenv("PREMIUM_SWEEP_HOUR", "24")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "moto", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=moto sslmode=disable TimeZone=UTC", d.DSN())
}
