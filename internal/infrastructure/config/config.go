package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	JWT     JWTConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Mail    MailConfig
	Payment PaymentConfig
	Upload  UploadConfig
	Auth    AuthConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// MongoConfig holds document store connection settings
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// MailConfig holds SMTP settings. An empty Host puts the mailer into
// log-only mode where every send reports "not configured".
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// PaymentConfig holds per-provider gateway settings
type PaymentConfig struct {
	Stripe StripeConfig
	Alipay AlipayConfig
}

// StripeConfig holds Stripe gateway settings. An empty SecretKey makes the
// adapter return locally generated mock intents.
type StripeConfig struct {
	SecretKey string
	Currency  string
	BaseURL   string
}

// AlipayConfig holds Alipay gateway settings
type AlipayConfig struct {
	AppID      string
	GatewayURL string
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	Dir     string
	MaxSize int64 // bytes
}

// AuthConfig holds registration gating settings. An empty
// SalesRegistrationCode closes sales registration entirely.
type AuthConfig struct {
	SalesRegistrationCode string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STORE_ prefix (e.g., STORE_JWT_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
			Timeout:  v.GetDuration("mongo.timeout"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Mail: MailConfig{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
		},
		Payment: PaymentConfig{
			Stripe: StripeConfig{
				SecretKey: v.GetString("payment.stripe.secret_key"),
				Currency:  v.GetString("payment.stripe.currency"),
				BaseURL:   v.GetString("payment.stripe.base_url"),
			},
			Alipay: AlipayConfig{
				AppID:      v.GetString("payment.alipay.app_id"),
				GatewayURL: v.GetString("payment.alipay.gateway_url"),
			},
		},
		Upload: UploadConfig{
			Dir:     v.GetString("upload.dir"),
			MaxSize: v.GetInt64("upload.max_size"),
		},
		Auth: AuthConfig{
			SalesRegistrationCode: v.GetString("auth.sales_registration_code"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "qiustore-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "qiustore"
	}
	if cfg.Mongo.Timeout == 0 {
		cfg.Mongo.Timeout = 10 * time.Second
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "qiustore-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	if cfg.Payment.Stripe.Currency == "" {
		cfg.Payment.Stripe.Currency = "usd"
	}
	if cfg.Payment.Stripe.BaseURL == "" {
		cfg.Payment.Stripe.BaseURL = "https://api.stripe.com"
	}
	if cfg.Payment.Alipay.GatewayURL == "" {
		cfg.Payment.Alipay.GatewayURL = "https://openapi.alipaydev.com/gateway.do"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 2 << 20 // 2MB
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Upload.MaxSize < 0 {
		return fmt.Errorf("upload.max_size cannot be negative")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}
