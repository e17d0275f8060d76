// Package config loads padchat settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName   = "padchat"
	envPrefix = "PADCHAT"
)

var (
	ErrNoAPIKey   = errors.New("llm.api_key is not set (PADCHAT_LLM_API_KEY or OPENROUTER_API_KEY)")
	ErrNoModels   = errors.New("models must list at least one model")
	ErrNoBaseURL  = errors.New("client.base_url is not set")
	ErrNoDatabase = errors.New("server.db_path is not set")
)

// DefaultModels mirrors the static catalogue the backend has always served.
var DefaultModels = []string{
	"openai/gpt-4o-mini",
	"meta-llama/llama-3.1-70b-instruct:free",
	"mistralai/mistral-large",
	"google/gemini-flash-1.5",
}

type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	DBPath string `mapstructure:"db_path"`
}

type LLMConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	SiteURL      string `mapstructure:"site_url"`
	AppTitle     string `mapstructure:"app_title"`
}

type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Models []string     `mapstructure:"models"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8100")
	v.SetDefault("server.db_path", "padchat.db")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.default_model", DefaultModels[0])
	v.SetDefault("llm.site_url", "http://localhost:8100")
	v.SetDefault("llm.app_title", "padchat")
	v.SetDefault("models", DefaultModels)
	v.SetDefault("client.base_url", "http://localhost:8100")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration into a Config. configFile may be empty, in which
// case padchat.yaml is looked up in the working directory and
// $HOME/.config/padchat; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", envPrefix+"_LLM_API_KEY", "OPENROUTER_API_KEY"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ValidateServer checks what the backend needs to start.
func (c *Config) ValidateServer() error {
	if c.LLM.APIKey == "" {
		return ErrNoAPIKey
	}
	if len(c.Models) == 0 {
		return ErrNoModels
	}
	if c.Server.DBPath == "" {
		return ErrNoDatabase
	}
	return nil
}

// ValidateClient checks what the chat client needs to start.
func (c *Config) ValidateClient() error {
	if c.Client.BaseURL == "" {
		return ErrNoBaseURL
	}
	return nil
}
