package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
	GinMode           string        `mapstructure:"gin_mode" yaml:"gin_mode" validate:"oneof=debug release test"`

	// QueueSize bounds each client's outbound event queue. A client that
	// falls this far behind is dropped.
	QueueSize         int           `mapstructure:"queue_size" yaml:"queue_size" validate:"gt=0"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes" validate:"gt=0"`
	MaxTextLength     int           `mapstructure:"max_text_length" yaml:"max_text_length" validate:"gt=0"`
	MaxCodeLength     int           `mapstructure:"max_code_length" yaml:"max_code_length" validate:"gt=0,lte=128"`
	MessagesPerMinute int           `mapstructure:"messages_per_minute" yaml:"messages_per_minute" validate:"gte=0"`
	RegistryShards    int           `mapstructure:"registry_shards" yaml:"registry_shards" validate:"gt=0,lte=4096"`
	PingInterval      time.Duration `mapstructure:"ping_interval" yaml:"ping_interval" validate:"gte=0"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		GinMode:           "release",
		QueueSize:         64,
		MaxMessageBytes:   1 << 16,
		MaxTextLength:     4000,
		MaxCodeLength:     32,
		MessagesPerMinute: 120,
		RegistryShards:    32,
		PingInterval:      30 * time.Second,
	}
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.GinMode != "" {
		c.GinMode = other.GinMode
	}
	if other.QueueSize != 0 {
		c.QueueSize = other.QueueSize
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.MaxTextLength != 0 {
		c.MaxTextLength = other.MaxTextLength
	}
	if other.MaxCodeLength != 0 {
		c.MaxCodeLength = other.MaxCodeLength
	}
	if other.MessagesPerMinute != 0 {
		c.MessagesPerMinute = other.MessagesPerMinute
	}
	if other.RegistryShards != 0 {
		c.RegistryShards = other.RegistryShards
	}
	if other.PingInterval != 0 {
		c.PingInterval = other.PingInterval
	}
}
