package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "CORKBOARD_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "CORKBOARD_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "CORKBOARD_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "CORKBOARD_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CORKBOARD_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "CORKBOARD_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "CORKBOARD_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "returns fallback for empty string", key: "CORKBOARD_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "CORKBOARD_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "CORKBOARD_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "CORKBOARD_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "CORKBOARD_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses composite", key: "CORKBOARD_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on invalid", key: "CORKBOARD_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "CORKBOARD_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_MissingJWTSecret(t *testing.T) {
	// All defaults apply; JWT secret is empty => must fail.
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CORKBOARD_JWT_SECRET")
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		{name: "DB_PORT not a number", envKey: "CORKBOARD_DB_PORT", envVal: "abc", errMsg: "CORKBOARD_DB_PORT"},
		{name: "DB_PORT zero", envKey: "CORKBOARD_DB_PORT", envVal: "0", errMsg: "CORKBOARD_DB_PORT"},
		{name: "DB_PORT too high", envKey: "CORKBOARD_DB_PORT", envVal: "65536", errMsg: "CORKBOARD_DB_PORT"},

		{name: "DB_MAX_CONNS zero", envKey: "CORKBOARD_DB_MAX_CONNS", envVal: "0", errMsg: "CORKBOARD_DB_MAX_CONNS"},
		{name: "DB_MAX_CONNS not a number", envKey: "CORKBOARD_DB_MAX_CONNS", envVal: "many", errMsg: "CORKBOARD_DB_MAX_CONNS"},

		{name: "JWT_ACCESS_TTL invalid", envKey: "CORKBOARD_JWT_ACCESS_TTL", envVal: "badval", errMsg: "CORKBOARD_JWT_ACCESS_TTL"},
		{name: "JWT_REFRESH_TTL zero", envKey: "CORKBOARD_JWT_REFRESH_TTL", envVal: "0s", errMsg: "CORKBOARD_JWT_REFRESH_TTL"},

		{name: "SERVER_READ_TIMEOUT invalid", envKey: "CORKBOARD_SERVER_READ_TIMEOUT", envVal: "notduration", errMsg: "CORKBOARD_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "CORKBOARD_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "CORKBOARD_SERVER_WRITE_TIMEOUT"},

		{name: "HUB_SEND_BUFFER zero", envKey: "CORKBOARD_HUB_SEND_BUFFER", envVal: "0", errMsg: "CORKBOARD_HUB_SEND_BUFFER"},
		{name: "HUB_WRITE_TIMEOUT zero", envKey: "CORKBOARD_HUB_WRITE_TIMEOUT", envVal: "0s", errMsg: "CORKBOARD_HUB_WRITE_TIMEOUT"},
		{name: "HUB_HEARTBEAT_INTERVAL negative", envKey: "CORKBOARD_HUB_HEARTBEAT_INTERVAL", envVal: "-30s", errMsg: "CORKBOARD_HUB_HEARTBEAT_INTERVAL"},
		{name: "HUB_HEARTBEAT_GRACE zero", envKey: "CORKBOARD_HUB_HEARTBEAT_GRACE", envVal: "0s", errMsg: "CORKBOARD_HUB_HEARTBEAT_GRACE"},

		{name: "REDIS_DB not a number", envKey: "CORKBOARD_REDIS_DB", envVal: "abc", errMsg: "CORKBOARD_REDIS_DB"},
		{name: "REDIS_ACCESS_TTL zero", envKey: "CORKBOARD_REDIS_ACCESS_TTL", envVal: "0s", errMsg: "CORKBOARD_REDIS_ACCESS_TTL"},

		{name: "SELF_HOSTED not a bool", envKey: "CORKBOARD_SELF_HOSTED", envVal: "yes", errMsg: "CORKBOARD_SELF_HOSTED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Always set JWT secret so failures are from the var under test.
			t.Setenv("CORKBOARD_JWT_SECRET", "test-secret-for-error-cases-32ch!")
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	// Only the required JWT secret is set; everything else uses defaults.
	t.Setenv("CORKBOARD_JWT_SECRET", "my-dev-secret-at-least-32-chars!!")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "corkboard", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "corkboard_dev", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxConns)

	// Redis defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Redis.AccessTTL)

	// JWT defaults.
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)

	// Server defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// Hub defaults.
	assert.Equal(t, 64, cfg.Hub.SendBuffer)
	assert.Equal(t, 5*time.Second, cfg.Hub.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Hub.HeartbeatInterval)
	assert.Equal(t, 60*time.Second, cfg.Hub.HeartbeatGrace)

	// Self-hosted default.
	assert.False(t, cfg.SelfHosted)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		// Database
		"CORKBOARD_DB_HOST":      "db.prod.internal",
		"CORKBOARD_DB_PORT":      "5433",
		"CORKBOARD_DB_USER":      "prod_user",
		"CORKBOARD_DB_PASSWORD":  "s3cret!",
		"CORKBOARD_DB_NAME":      "corkboard_prod",
		"CORKBOARD_DB_SSLMODE":   "require",
		"CORKBOARD_DB_MAX_CONNS": "50",
		// Redis
		"CORKBOARD_REDIS_ADDR":       "redis.prod:6380",
		"CORKBOARD_REDIS_PASSWORD":   "redis-pass",
		"CORKBOARD_REDIS_DB":         "3",
		"CORKBOARD_REDIS_ACCESS_TTL": "1m",
		// JWT
		"CORKBOARD_JWT_SECRET":      "prod-jwt-secret-256-bits-long!!!",
		"CORKBOARD_JWT_ACCESS_TTL":  "30m",
		"CORKBOARD_JWT_REFRESH_TTL": "72h",
		// Server
		"CORKBOARD_SERVER_ADDR":          ":9090",
		"CORKBOARD_SERVER_READ_TIMEOUT":  "5s",
		"CORKBOARD_SERVER_WRITE_TIMEOUT": "15s",
		// Hub
		"CORKBOARD_HUB_SEND_BUFFER":        "128",
		"CORKBOARD_HUB_WRITE_TIMEOUT":      "2s",
		"CORKBOARD_HUB_HEARTBEAT_INTERVAL": "10s",
		"CORKBOARD_HUB_HEARTBEAT_GRACE":    "20s",
		// Self-hosted
		"CORKBOARD_SELF_HOSTED": "true",
	}

	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database
	assert.Equal(t, "db.prod.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "prod_user", cfg.Database.User)
	assert.Equal(t, "s3cret!", cfg.Database.Password)
	assert.Equal(t, "corkboard_prod", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxConns)

	// Redis
	assert.Equal(t, "redis.prod:6380", cfg.Redis.Addr)
	assert.Equal(t, "redis-pass", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Redis.AccessTTL)

	// JWT
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 72*time.Hour, cfg.JWT.RefreshTTL)

	// Server
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)

	// Hub
	assert.Equal(t, 128, cfg.Hub.SendBuffer)
	assert.Equal(t, 2*time.Second, cfg.Hub.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Hub.HeartbeatInterval)
	assert.Equal(t, 20*time.Second, cfg.Hub.HeartbeatGrace)

	// Self-hosted
	assert.True(t, cfg.SelfHosted)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "corkboard",
				Password: "", DBName: "corkboard_dev", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=corkboard password= dbname=corkboard_dev sslmode=disable",
		},
		{
			name: "production values",
			cfg: DatabaseConfig{
				Host: "db.prod", Port: 5433, User: "admin",
				Password: "p@ss!", DBName: "corkboard_prod", SSLMode: "require",
			},
			want: "host=db.prod port=5433 user=admin password=p@ss! dbname=corkboard_prod sslmode=require",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	// validBase returns a Config that passes validation.
	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Port: 5432, MaxConns: 25},
			Redis:    RedisConfig{AccessTTL: 30 * time.Second},
			JWT: JWTConfig{
				Secret:     "test-secret-that-is-at-least-32ch",
				AccessTTL:  15 * time.Minute,
				RefreshTTL: 7 * 24 * time.Hour,
			},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			Hub: HubConfig{
				SendBuffer:        64,
				WriteTimeout:      5 * time.Second,
				HeartbeatInterval: 30 * time.Second,
				HeartbeatGrace:    60 * time.Second,
			},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validBase().validate())
	})

	t.Run("empty JWT secret fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = ""
		assert.ErrorContains(t, c.validate(), "CORKBOARD_JWT_SECRET")
	})

	t.Run("JWT secret too short fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = "only-31-characters-long-secret!"
		assert.ErrorContains(t, c.validate(), "CORKBOARD_JWT_SECRET")
	})

	t.Run("port 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 0
		assert.ErrorContains(t, c.validate(), "CORKBOARD_DB_PORT")
	})

	t.Run("MaxConns 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.MaxConns = 0
		assert.ErrorContains(t, c.validate(), "CORKBOARD_DB_MAX_CONNS")
	})

	t.Run("hub send buffer 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Hub.SendBuffer = 0
		assert.ErrorContains(t, c.validate(), "CORKBOARD_HUB_SEND_BUFFER")
	})

	t.Run("hub write timeout 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Hub.WriteTimeout = 0
		assert.ErrorContains(t, c.validate(), "CORKBOARD_HUB_WRITE_TIMEOUT")
	})

	t.Run("heartbeat interval 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Hub.HeartbeatInterval = 0
		assert.ErrorContains(t, c.validate(), "CORKBOARD_HUB_HEARTBEAT_INTERVAL")
	})

	t.Run("heartbeat grace negative fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Hub.HeartbeatGrace = -time.Second
		assert.ErrorContains(t, c.validate(), "CORKBOARD_HUB_HEARTBEAT_GRACE")
	})

	t.Run("access cache TTL 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Redis.AccessTTL = 0
		assert.ErrorContains(t, c.validate(), "CORKBOARD_REDIS_ACCESS_TTL")
	})
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
