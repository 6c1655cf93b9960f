package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"LEASELEDGER_APP_NAME":                os.Getenv("LEASELEDGER_APP_NAME"),
		"LEASELEDGER_APP_ENV":                 os.Getenv("LEASELEDGER_APP_ENV"),
		"LEASELEDGER_APP_PORT":                os.Getenv("LEASELEDGER_APP_PORT"),
		"LEASELEDGER_DATABASE_HOST":           os.Getenv("LEASELEDGER_DATABASE_HOST"),
		"LEASELEDGER_DATABASE_PORT":           os.Getenv("LEASELEDGER_DATABASE_PORT"),
		"LEASELEDGER_DATABASE_USER":           os.Getenv("LEASELEDGER_DATABASE_USER"),
		"LEASELEDGER_DATABASE_PASSWORD":       os.Getenv("LEASELEDGER_DATABASE_PASSWORD"),
		"LEASELEDGER_DATABASE_DBNAME":         os.Getenv("LEASELEDGER_DATABASE_DBNAME"),
		"LEASELEDGER_DATABASE_SSLMODE":        os.Getenv("LEASELEDGER_DATABASE_SSLMODE"),
		"LEASELEDGER_DATABASE_MAX_OPEN_CONNS": os.Getenv("LEASELEDGER_DATABASE_MAX_OPEN_CONNS"),
		"LEASELEDGER_DATABASE_MAX_IDLE_CONNS": os.Getenv("LEASELEDGER_DATABASE_MAX_IDLE_CONNS"),
		"LEASELEDGER_JWT_SECRET":              os.Getenv("LEASELEDGER_JWT_SECRET"),
		"LEASELEDGER_COLLECTIONS_STALE_AFTER": os.Getenv("LEASELEDGER_COLLECTIONS_STALE_AFTER"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "leaseledger-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "leaseledger", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 90*24*time.Hour, cfg.Collections.StaleAfter)
		assert.Equal(t, "0 3 * * *", cfg.Collections.SweepCronSchedule)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	})

	t.Run("loads values from environment variables with LEASELEDGER prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("LEASELEDGER_APP_NAME", "test-app")
		os.Setenv("LEASELEDGER_APP_ENV", "testing")
		os.Setenv("LEASELEDGER_APP_PORT", "9000")
		os.Setenv("LEASELEDGER_DATABASE_HOST", "testdb.local")
		os.Setenv("LEASELEDGER_DATABASE_PORT", "5433")
		os.Setenv("LEASELEDGER_DATABASE_USER", "testuser")
		os.Setenv("LEASELEDGER_DATABASE_PASSWORD", "testpass")
		os.Setenv("LEASELEDGER_DATABASE_DBNAME", "testdb")
		os.Setenv("LEASELEDGER_DATABASE_SSLMODE", "require")
		os.Setenv("LEASELEDGER_COLLECTIONS_STALE_AFTER", "720h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 720*time.Hour, cfg.Collections.StaleAfter)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("LEASELEDGER_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("LEASELEDGER_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("LEASELEDGER_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("LEASELEDGER_APP_ENV", "production")
		os.Setenv("LEASELEDGER_DATABASE_PASSWORD", "secret")
		os.Setenv("LEASELEDGER_DATABASE_SSLMODE", "require")
		os.Setenv("LEASELEDGER_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "leaseledger",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Password must be URL-escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
