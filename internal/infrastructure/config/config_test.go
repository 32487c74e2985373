package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "carehouse-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "carehouse", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "", cfg.Redis.Addr(), "redis stays off until a host is configured")
		assert.Equal(t, 10*time.Minute, cfg.Redis.RateCacheTTL)
		assert.Equal(t, 5*time.Second, cfg.Recompute.PollInterval)
		assert.Equal(t, 50, cfg.Recompute.BatchSize)
		assert.Equal(t, 5, cfg.Recompute.MaxRetries)
		assert.Equal(t, 30*time.Second, cfg.Recompute.InlineGrace)
		assert.Equal(t, "0 3 * * *", cfg.Sweep.CronSpec)
		assert.Equal(t, "carehouse-backend", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with CAREHOUSE prefix", func(t *testing.T) {
		t.Setenv("CAREHOUSE_APP_NAME", "test-app")
		t.Setenv("CAREHOUSE_APP_ENV", "testing")
		t.Setenv("CAREHOUSE_APP_PORT", "9000")
		t.Setenv("CAREHOUSE_DATABASE_HOST", "testdb.local")
		t.Setenv("CAREHOUSE_DATABASE_PORT", "5433")
		t.Setenv("CAREHOUSE_DATABASE_PASSWORD", "testpass")
		t.Setenv("CAREHOUSE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("CAREHOUSE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("CAREHOUSE_REDIS_HOST", "cache.local")
		t.Setenv("CAREHOUSE_RECOMPUTE_POLL_INTERVAL", "750ms")
		t.Setenv("CAREHOUSE_RECOMPUTE_PROCESSOR_ENABLED", "true")
		t.Setenv("CAREHOUSE_SWEEP_CRON_SPEC", "*/15 * * * *")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.Equal(t, 750*time.Millisecond, cfg.Recompute.PollInterval)
		assert.True(t, cfg.Recompute.ProcessorEnabled)
		assert.Equal(t, "*/15 * * * *", cfg.Sweep.CronSpec)
		assert.Equal(t, "test-app", cfg.Telemetry.ServiceName)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("CAREHOUSE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("CAREHOUSE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		t.Setenv("CAREHOUSE_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("CAREHOUSE_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects a sampling ratio above one", func(t *testing.T) {
		t.Setenv("CAREHOUSE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("CAREHOUSE_APP_ENV", "production")
		t.Setenv("CAREHOUSE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("CAREHOUSE_DATABASE_SSLMODE", "require")
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "requires database.password in production",
			env:     map[string]string{"CAREHOUSE_DATABASE_PASSWORD": ""},
			wantErr: "database.password is required in production",
		},
		{
			name:    "requires SSL enabled in production",
			env:     map[string]string{"CAREHOUSE_DATABASE_SSLMODE": "disable"},
			wantErr: "database.sslmode cannot be 'disable' in production",
		},
		{
			name:    "rejects wildcard CORS origin in production",
			env:     map[string]string{"CAREHOUSE_HTTP_CORS_ALLOW_ORIGINS": "*"},
			wantErr: "cors_allow_origins cannot be '*'",
		},
		{
			name:    "rejects full SQL logging in production",
			env:     map[string]string{"CAREHOUSE_TELEMETRY_DB_LOG_FULL_SQL": "true"},
			wantErr: "db_log_full_sql must be false",
		},
		{
			name: "passes validation with valid production config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, cfg.App.IsProduction())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
