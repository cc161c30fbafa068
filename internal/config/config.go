// Package config loads server configuration from config files and the
// environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	Port            string   `mapstructure:"port"`
	GCPProject      string   `mapstructure:"gcp_project"`
	GeminiAPIKey    string   `mapstructure:"gemini_api_key"`
	StatementBucket string   `mapstructure:"statement_bucket"`
	UseMemoryStore  bool     `mapstructure:"use_memory_store"`
	SkipAuth        bool     `mapstructure:"skip_auth"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from an optional config.yaml (working directory
// or /etc/spendwise) and the SPENDWISE_* environment, in that order of
// precedence: environment wins.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8111")
	v.SetDefault("use_memory_store", false)
	v.SetDefault("skip_auth", false)
	v.SetDefault("allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/spendwise")

	v.SetEnvPrefix("SPENDWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if !c.UseMemoryStore && c.GCPProject == "" {
		return fmt.Errorf("gcp_project is required unless use_memory_store is set")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
