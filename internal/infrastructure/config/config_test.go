package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, 168*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "usd", cfg.Payment.Stripe.Currency)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(2<<20), cfg.Upload.MaxSize)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "9000"
	cfg.Upload.MaxSize = 1 << 20
	cfg.Mail.Username = "store@example.com"
	applyDefaults(cfg)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxSize)
	assert.Equal(t, "store@example.com", cfg.Mail.From, "from falls back to the smtp username")
}

func TestValidate_Production(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		wantError string
	}{
		{
			name:      "missing jwt secret",
			mutate:    func(cfg *Config) { cfg.JWT.Secret = "" },
			wantError: "jwt.secret is required",
		},
		{
			name:      "short jwt secret",
			mutate:    func(cfg *Config) { cfg.JWT.Secret = "too-short" },
			wantError: "at least 32 characters",
		},
		{
			name: "wildcard cors origin",
			mutate: func(cfg *Config) {
				cfg.HTTP.CORSAllowOrigins = []string{"*"}
			},
			wantError: "cors_allow_origins",
		},
		{
			name:   "valid production config",
			mutate: func(cfg *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			cfg.App.Env = "production"
			cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.NoError(t, cfg.validate(), "development config needs no secret")

	cfg.Upload.MaxSize = -1
	assert.Error(t, cfg.validate())
}
