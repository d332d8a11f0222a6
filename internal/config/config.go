// Package config loads the mdj client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Account  AccountConfig  `mapstructure:"account"`
	Session  SessionConfig  `mapstructure:"session"`
	Display  DisplayConfig  `mapstructure:"display"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

type ServerConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
}

// AccountConfig is usually set through MDJ_EMAIL and MDJ_PASSWORD.
type AccountConfig struct {
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	Password string `mapstructure:"password"`
}

type SessionConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

type DisplayConfig struct {
	Timezone string `mapstructure:"timezone" validate:"timezone"`
	Color    bool   `mapstructure:"color"`
}

type WatchConfig struct {
	Schedule string `mapstructure:"schedule" validate:"cron"`
}

type CalendarConfig struct {
	Output string `mapstructure:"output"`
}

// Location resolves the display time zone. Validation already checked it.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return time.Local
	}
	return location
}

func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.Server.TimeoutSeconds) * time.Second
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mdj")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.retry_attempts", 2)
	v.SetDefault("session.file", defaultSessionFile())
	v.SetDefault("display.timezone", "Local")
	v.SetDefault("display.color", true)
	v.SetDefault("watch.schedule", "*/15 * * * *")
	v.SetDefault("calendar.output", "mdj.ics")

	if err := v.BindEnv("server.base_url", "MDJ_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind MDJ_BASE_URL environment variable: %w", err)
	}
	if err := v.BindEnv("account.email", "MDJ_EMAIL"); err != nil {
		return nil, fmt.Errorf("failed to bind MDJ_EMAIL environment variable: %w", err)
	}
	if err := v.BindEnv("account.password", "MDJ_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind MDJ_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mdj-session.yml"
	}
	return filepath.Join(home, ".config", "mdj", "session.yml")
}
