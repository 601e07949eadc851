package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const (
	EnvPrefix      = "KANSO"
	configName     = "kanso-report"
	DefaultPort    = "8080"
	DefaultSource  = "mem:demo"
	DefaultTTL     = 24 * time.Hour
	DefaultLimit   = 100
	DefaultTimeout = 30 * time.Second
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Enabled reports whether a database was configured at all.
func (c DBConfig) Enabled() bool {
	return c.Name != ""
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type Config struct {
	Source   string `mapstructure:"source"`
	Variant  string `mapstructure:"variant"`
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	APISecret string        `mapstructure:"api_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	RateLimit int           `mapstructure:"rate_limit"`
	Timeout   time.Duration `mapstructure:"fetch_timeout"`
	// Refresh rebuilds the default report in serve mode; zero disables it.
	Refresh time.Duration `mapstructure:"refresh_interval"`

	DB    DBConfig    `mapstructure:"db"`
	Redis RedisConfig `mapstructure:"redis"`

	// Categories replaces the preset category order when not empty.
	Categories []domain.Category `mapstructure:"categories"`
	Adjustment float64           `mapstructure:"adjustment"`
	// Groups restricts the habits read from the database source.
	Groups []string `mapstructure:"groups"`
}

// NewViper returns a viper instance with defaults and KANSO_* environment
// binding. Nested keys map to underscores: db.host reads KANSO_DB_HOST.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("source", DefaultSource)
	v.SetDefault("variant", string(domain.VariantScored))
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("api_secret", "")
	v.SetDefault("token_ttl", DefaultTTL)
	v.SetDefault("cache_ttl", time.Duration(0))
	v.SetDefault("rate_limit", DefaultLimit)
	v.SetDefault("fetch_timeout", DefaultTimeout)
	v.SetDefault("refresh_interval", time.Duration(0))
	v.SetDefault("adjustment", domain.DefaultAdjustment)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "kanso_user")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and decodes everything into a Config.
// An explicit file must exist; the implicit ./kanso-report.yaml may not.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if _, err := domain.ParseVariant(cfg.Variant); err != nil {
		return nil, err
	}
	if len(cfg.Categories) > 0 {
		if _, err := domain.NewCategoryOrder(cfg.Categories, cfg.Adjustment); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// OrderProvider returns the configured category order for a variant,
// falling back to the variant preset.
func (c *Config) OrderProvider() func(domain.Variant) (domain.CategoryOrder, error) {
	if len(c.Categories) == 0 {
		return domain.DefaultOrder
	}

	categories := append([]domain.Category(nil), c.Categories...)
	adjustment := c.Adjustment

	return func(v domain.Variant) (domain.CategoryOrder, error) {
		if v != domain.VariantClassic && v != domain.VariantScored {
			return domain.CategoryOrder{}, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, v)
		}
		return domain.NewCategoryOrder(categories, adjustment)
	}
}
