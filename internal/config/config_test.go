package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Reports.ScorePerResolved)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.MQTT.Enabled())
	assert.False(t, cfg.Admin.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "gramroute")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_HOURS", "12")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://gramroute.example")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("ADMIN_EMAIL", "admin@gramroute.example")
	t.Setenv("ADMIN_PASSWORD", "Adm1n!pass")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 12, cfg.JWT.ExpiryHours)
	assert.Equal(t, []string{"http://localhost:5173", "https://gramroute.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.MQTT.Enabled())
	assert.True(t, cfg.Admin.Enabled())
	assert.Equal(t, "admin", cfg.Admin.Username)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Environment: "production"},
		Database: DatabaseConfig{Host: "localhost", DBName: "gramroute"},
	}
	assert.Error(t, cfg.Validate(), "production requires a JWT secret")

	cfg.Server.Environment = "development"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", db.DSN())
}
