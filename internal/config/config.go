package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "FARMBEATS"

// Config is the bridge configuration loaded from configs/config.yml and
// FARMBEATS_* environment variables.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	Device    DeviceConfig
	Stream    StreamConfig
	Functions FunctionsConfig
	Auth      AuthConfig
}

type DeviceConfig struct {
	// ID seeds the DeviceId named value when the workbook has none.
	ID                 string
	Timeout            time.Duration
	RevalidateInterval time.Duration
}

type StreamConfig struct {
	// PollTime seeds DataPollTime and is the fallback when it is unreadable.
	PollTime time.Duration
	// MaxRows seeds MaxDataRows and is the fallback when it is unreadable.
	MaxRows int
}

type FunctionsConfig struct {
	Interval time.Duration
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

var errNoSigningKey = errors.New("auth.signing_key must not be empty")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "farmbeats.db")
	v.SetDefault("device.id", "farmbeats")
	v.SetDefault("device.timeout", 5*time.Second)
	v.SetDefault("device.revalidate_interval", 10*time.Second)
	v.SetDefault("stream.poll_time", 60*time.Second)
	v.SetDefault("stream.max_rows", 1000)
	v.SetDefault("functions.interval", time.Second)
	v.SetDefault("auth.token_ttl", time.Hour)
}

// Load reads config.yml from dir. A missing file is not an error; defaults
// and environment variables still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		DBPath:   v.GetString("db.path"),
		Device: DeviceConfig{
			ID:                 v.GetString("device.id"),
			Timeout:            v.GetDuration("device.timeout"),
			RevalidateInterval: v.GetDuration("device.revalidate_interval"),
		},
		Stream: StreamConfig{
			PollTime: v.GetDuration("stream.poll_time"),
			MaxRows:  v.GetInt("stream.max_rows"),
		},
		Functions: FunctionsConfig{
			Interval: v.GetDuration("functions.interval"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errNoSigningKey
	}
	if c.Stream.MaxRows <= 0 {
		return fmt.Errorf("stream.max_rows must be positive, got %d", c.Stream.MaxRows)
	}
	if c.Stream.PollTime <= 0 {
		return fmt.Errorf("stream.poll_time must be positive, got %s", c.Stream.PollTime)
	}
	if c.Functions.Interval <= 0 {
		return fmt.Errorf("functions.interval must be positive, got %s", c.Functions.Interval)
	}
	return nil
}
