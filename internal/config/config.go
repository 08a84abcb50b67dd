// Package config loads runtime configuration from an optional YAML file
// plus environment variables. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/surajmsd1/aisearch-core/core/taxonomy"
)

const envPrefix = "AISEARCH"

// Audio backend names accepted in configuration.
const (
	BackendMiniaudio = "miniaudio"
	BackendPortAudio = "portaudio"
)

type Config struct {
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	DeepgramAPIKey string `mapstructure:"deepgram_api_key"`

	Model string `mapstructure:"model"`
	Voice string `mapstructure:"voice"`

	AudioBackend string `mapstructure:"audio_backend"`

	SilenceThresholdMS int `mapstructure:"silence_threshold_ms"`
	SettleDelayMS      int `mapstructure:"settle_delay_ms"`

	// Services optionally replaces the built-in taxonomy.
	Services []map[string]any `mapstructure:"services"`
}

func (c Config) SilenceThreshold() time.Duration {
	return time.Duration(c.SilenceThresholdMS) * time.Millisecond
}

func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// Taxonomy decodes the configured services override, or returns the default
// taxonomy when none is configured.
func (c Config) Taxonomy() (taxonomy.Taxonomy, error) {
	if len(c.Services) == 0 {
		return taxonomy.Default(), nil
	}
	return taxonomy.Decode(c.Services)
}

// Load reads configuration. With an empty path it searches the working
// directory and ~/.config/aisearch for an aisearch.yaml; a missing file is
// not an error since every setting has an environment or default fallback.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("voice", "aura-2-thalia-en")
	v.SetDefault("audio_backend", BackendMiniaudio)
	v.SetDefault("silence_threshold_ms", 2000)
	v.SetDefault("settle_delay_ms", 1000)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// API keys follow the vendors' conventional variable names
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("deepgram_api_key", "DEEPGRAM_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aisearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/aisearch")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("openai_api_key is required (set OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.DeepgramAPIKey) == "" {
		return fmt.Errorf("deepgram_api_key is required (set DEEPGRAM_API_KEY)")
	}
	switch c.AudioBackend {
	case BackendMiniaudio, BackendPortAudio:
	default:
		return fmt.Errorf("unknown audio_backend %q", c.AudioBackend)
	}
	if c.SilenceThresholdMS <= 0 {
		return fmt.Errorf("silence_threshold_ms must be positive")
	}
	if c.SettleDelayMS < 0 {
		return fmt.Errorf("settle_delay_ms must not be negative")
	}
	return nil
}
