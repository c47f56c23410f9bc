package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the server settings. Every field is read from the
// environment variable named by its upper-cased key.
type Config struct {
	Port        string        `mapstructure:"port"`
	DBPath      string        `mapstructure:"db_path"`
	DatabaseURL string        `mapstructure:"database_url"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`

	ORSAPIKey  string        `mapstructure:"ors_api_key"`
	ORSBaseURL string        `mapstructure:"ors_base_url"`
	ORSProfile string        `mapstructure:"ors_profile"`
	ORSCountry string        `mapstructure:"ors_country"`
	ORSTimeout time.Duration `mapstructure:"ors_timeout"`

	PathSeparator string `mapstructure:"path_separator"`
	ImportPath    string `mapstructure:"import_path"`
	LegWorkers    int    `mapstructure:"leg_workers"`
	LogLevel      string `mapstructure:"log_level"`
}

// Load reads a .env file if present, then the optional file named by
// PATH_ROUTE_CONFIG, then environment variables.
func Load() (Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "data/app.db")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_ttl", 24*time.Hour)
	v.SetDefault("ors_api_key", "")
	v.SetDefault("ors_base_url", "https://api.openrouteservice.org")
	v.SetDefault("ors_profile", "driving-car")
	v.SetDefault("ors_country", "")
	v.SetDefault("ors_timeout", 20*time.Second)
	v.SetDefault("path_separator", ",")
	v.SetDefault("import_path", "")
	v.SetDefault("leg_workers", 5)
	v.SetDefault("log_level", "info")

	if cfgPath := os.Getenv("PATH_ROUTE_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", cfgPath, err)
		}
	}

	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: PORT must not be empty")
	}
	if c.PathSeparator == "" {
		return errors.New("config: PATH_SEPARATOR must not be empty")
	}
	if c.LegWorkers < 0 {
		return fmt.Errorf("config: LEG_WORKERS must not be negative, got %d", c.LegWorkers)
	}
	return nil
}

// Get returns the environment variable key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
