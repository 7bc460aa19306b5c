// Package config loads storefront settings from an optional .env file, an optional
// config.yaml and STOREFRONT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "STOREFRONT"

// Session backends.
const (
	SessionCookie   = "cookie"
	SessionRedis    = "redis"
	SessionPostgres = "postgres"
	SessionMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Backends  BackendsConfig  `mapstructure:"backends"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Images    ImagesConfig    `mapstructure:"images"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BackendsConfig struct {
	AuthURL    string        `mapstructure:"auth_url"`
	CatalogURL string        `mapstructure:"catalog_url"`
	OrdersURL  string        `mapstructure:"orders_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Backend    string `mapstructure:"backend"`
	CookieName string `mapstructure:"cookie_name"`
	Secret     string `mapstructure:"secret"`
	Secure     bool   `mapstructure:"secure"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type CatalogConfig struct {
	PageSize  int    `mapstructure:"page_size"`
	FetchSize int    `mapstructure:"fetch_size"`
	Featured  int    `mapstructure:"featured"`
	Locale    string `mapstructure:"locale"`
}

type CheckoutConfig struct {
	RedirectDelay time.Duration `mapstructure:"redirect_delay"`
}

type ImagesConfig struct {
	CloudName    string `mapstructure:"cloud_name"`
	UploadPreset string `mapstructure:"upload_preset"`
	UploadURL    string `mapstructure:"upload_url"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("backends.auth_url", "http://localhost:1010")
	v.SetDefault("backends.catalog_url", "http://localhost:1111")
	v.SetDefault("backends.orders_url", "http://localhost:1212")
	v.SetDefault("backends.timeout", 10*time.Second)
	v.SetDefault("session.backend", SessionCookie)
	v.SetDefault("session.cookie_name", "user")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.url", "")
	v.SetDefault("catalog.page_size", 9)
	v.SetDefault("catalog.fetch_size", 100)
	v.SetDefault("catalog.featured", 9)
	v.SetDefault("catalog.locale", "es")
	v.SetDefault("checkout.redirect_delay", 3*time.Second)
	v.SetDefault("images.cloud_name", "")
	v.SetDefault("images.upload_preset", "perfumeria_capri")
	v.SetDefault("images.upload_url", "")
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 3)
	v.SetDefault("ratelimit.trusted_proxies", []string{})
}

// Load reads the configuration. configFile may be empty, in which case ./config.yaml is
// used when present.
func Load(configFile string, logger logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, using environment variables and defaults")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		logger.Infof("Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Session.Backend {
	case SessionCookie:
		if c.Session.Secret == "" {
			return fmt.Errorf("%w: session.secret is required for the cookie session backend", ErrInvalidConfig)
		}
	case SessionRedis, SessionMemory:
	case SessionPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for the postgres session backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Session.Backend)
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("%w: catalog.page_size must be positive", ErrInvalidConfig)
	}
	if c.Backends.AuthURL == "" || c.Backends.CatalogURL == "" || c.Backends.OrdersURL == "" {
		return fmt.Errorf("%w: all backend URLs are required", ErrInvalidConfig)
	}
	return nil
}

// ImageUploadURL is images.upload_url when set, otherwise the Cloudinary endpoint for
// images.cloud_name. Empty means uploads are disabled.
func (c *Config) ImageUploadURL() string {
	if c.Images.UploadURL != "" {
		return c.Images.UploadURL
	}
	if c.Images.CloudName == "" {
		return ""
	}
	return gateway.CloudinaryUploadURL(c.Images.CloudName)
}

func (c *Config) Gateways() gateway.Config {
	return gateway.Config{
		AuthURL:    c.Backends.AuthURL,
		CatalogURL: c.Backends.CatalogURL,
		OrdersURL:  c.Backends.OrdersURL,
		Timeout:    c.Backends.Timeout,
	}
}
