package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	LLM   LLMConfig
	UI    UIConfig
	State StateConfig
}

// LLMConfig holds provider settings. Multi-word fields need explicit
// mapstructure tags: viper's snake_case keys do not match them otherwise.
type LLMConfig struct {
	Provider  string
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// StateConfig locates the session-state file.
type StateConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix
// ADMINPILOT_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-3-flash-preview")
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.currency_symbol", "€")
	v.SetDefault("state.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "adminpilot", "state.json"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ADMINPILOT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "adminpilot"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ADMINPILOT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. The API key is stored in plain text in the config file; encourage
// users to prefer env vars or the secrets store.
func Save(cfg Config) error {
	path := os.Getenv("ADMINPILOT_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "adminpilot", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("state.path", cfg.State.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
