package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/database"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ADDR", "APP_ENV", "DB_DRIVER", "DB_DSN", "SECRET_KEY", "SESSION_MAX_AGE",
		"SECURE_COOKIES", "ALLOW_ORIGINS", "SEED_DEMO_USERS", "SEED_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, database.DriverSQLite, cfg.DBDriver)
	assert.NotEmpty(t, cfg.DBDSN)
	assert.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)
	assert.True(t, cfg.SeedDemoUsers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_SecretFallbackIsFlagged(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.True(t, cfg.InsecureSecret)

	// 本番では拒否される
	cfg.AppEnv = EnvProduction
	assert.Error(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_MAX_AGE", "30m")
	t.Setenv("ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SEED_DEMO_USERS", "false")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.False(t, cfg.InsecureSecret)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowOrigins)
	assert.False(t, cfg.SeedDemoUsers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MySQLDSNFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "todos")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "app:pw@tcp(db:3306)/todos?parseTime=true", cfg.DBDSN)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":8080", "")
	flags.String("db-driver", database.DriverSQLite, "")
	require.NoError(t, flags.Parse([]string{"--addr", ":7000"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, database.DriverSQLite, cfg.DBDriver)
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", SessionMaxAge: time.Hour}
	assert.Error(t, cfg.Validate())
}
