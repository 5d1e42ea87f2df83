package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Order    OrderConfig    `mapstructure:"order"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig controls the startup fetch of settings, categories and products
type CatalogConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryWait            time.Duration `mapstructure:"retry_wait"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
}

// StorageConfig selects where cart and favorites snapshots live
type StorageConfig struct {
	Driver    string        `mapstructure:"driver"` // redis, postgres or memory
	Namespace string        `mapstructure:"namespace"`
	Debounce  time.Duration `mapstructure:"debounce"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OrderConfig shapes the checkout message
type OrderConfig struct {
	DeliveryFee         string `mapstructure:"delivery_fee"`
	StrictPhone         bool   `mapstructure:"strict_phone"`
	Currency            string `mapstructure:"currency"`
	Locale              string `mapstructure:"locale"`
	ClearCartOnCheckout bool   `mapstructure:"clear_cart_on_checkout"`
	WhatsApp            string `mapstructure:"whatsapp"` // Overrides the catalog settings number
}

// Fee parses the configured delivery fee.
func (c OrderConfig) Fee() (decimal.Decimal, error) {
	if strings.TrimSpace(c.DeliveryFee) == "" {
		return decimal.Zero, nil
	}
	fee, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid order.delivery_fee %q: %w", c.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("order.delivery_fee must not be negative")
	}
	return fee, nil
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Load reads config.yaml (or the file at path) with environment variable
// overrides. A missing config file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "redis", "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Catalog.MaxRetries < 1 {
		return fmt.Errorf("catalog.max_retries must be at least 1")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}
	if _, err := c.Order.Fee(); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")

	v.SetDefault("catalog.base_url", "http://localhost:8000")
	v.SetDefault("catalog.timeout", "5s")
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.retry_wait", "500ms")
	v.SetDefault("catalog.max_requests_per_second", 10)

	v.SetDefault("storage.driver", "redis")
	v.SetDefault("storage.namespace", "default")
	v.SetDefault("storage.debounce", "200ms")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "restaurant")
	v.SetDefault("database.user", "restaurant_user")
	v.SetDefault("database.password", "restaurant_pass")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("order.delivery_fee", "0")
	v.SetDefault("order.strict_phone", true)
	v.SetDefault("order.currency", "EGP")
	v.SetDefault("order.locale", "en")
	v.SetDefault("order.clear_cart_on_checkout", true)
	v.SetDefault("order.whatsapp", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
