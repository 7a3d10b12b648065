package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kelseyhightower/envconfig"
	"github.com/tbxark/sobaguide/formatter"
)

const EnvPrefix = "sobaguide"

const (
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
	BackendStatic = "static"
)

var ErrInvalidConfig = errors.New("invalid config")

// Duration accepts "30s" style strings in JSON and in the environment.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		var n int64
		if nErr := sonic.Unmarshal(data, &n); nErr != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	return d.Decode(s)
}

func (d *Duration) Decode(value string) error {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Backend struct {
	Kind         string   `json:"kind" envconfig:"KIND"`
	Model        string   `json:"model" envconfig:"MODEL"`
	APIKey       string   `json:"api_key" envconfig:"API_KEY"`
	BaseURL      string   `json:"base_url" envconfig:"BASE_URL"`
	Timeout      Duration `json:"timeout" envconfig:"TIMEOUT"`
	SystemPrompt string   `json:"system_prompt" envconfig:"SYSTEM_PROMPT"`
	// Text is the canned reply of the static backend.
	Text string `json:"text" envconfig:"TEXT"`
}

type Redis struct {
	Addr      string   `json:"addr" envconfig:"ADDR"`
	Password  string   `json:"password" envconfig:"PASSWORD"`
	DB        int      `json:"db" envconfig:"DB"`
	TTL       Duration `json:"ttl" envconfig:"TTL"`
	Namespace string   `json:"namespace" envconfig:"NAMESPACE"`
}

type Config struct {
	Backend   Backend   `json:"backend" envconfig:"BACKEND"`
	Fallbacks []Backend `json:"fallbacks" ignored:"true"`
	Redis     Redis     `json:"redis" envconfig:"REDIS"`

	Markers          formatter.Markers `json:"markers" ignored:"true"`
	PaletteSize      int               `json:"palette_size" envconfig:"PALETTE_SIZE"`
	Categories       []string          `json:"categories" envconfig:"CATEGORIES"`
	GeoData          string            `json:"geo_data" envconfig:"GEO_DATA"`
	OptionalFreeText bool              `json:"optional_free_text" envconfig:"OPTIONAL_FREE_TEXT"`
	FallbackMessage  string            `json:"fallback_message" envconfig:"FALLBACK_MESSAGE"`

	MetricsAddr string `json:"metrics_addr" envconfig:"METRICS_ADDR"`
	LogLevel    string `json:"log_level" envconfig:"LOG_LEVEL"`
	Color       bool   `json:"color" envconfig:"COLOR"`
}

func Default() *Config {
	return &Config{
		Backend: Backend{
			Kind:    BackendOpenAI,
			Model:   "gpt-4o-mini",
			Timeout: Duration(60 * time.Second),
		},
		Redis: Redis{
			TTL:       Duration(24 * time.Hour),
			Namespace: "sobaguide",
		},
		Markers:     formatter.DefaultMarkers(),
		PaletteSize: formatter.DefaultPaletteSize,
		LogLevel:    "info",
		Color:       true,
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// SOBAGUIDE_* environment overrides.
func Load(path string) (*Config, error) {
	conf := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := sonic.Unmarshal(file, conf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, conf); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	for _, b := range append([]Backend{c.Backend}, c.Fallbacks...) {
		switch b.Kind {
		case BackendOpenAI, BackendOllama:
			if b.Model == "" {
				return fmt.Errorf("%w: backend %s needs a model", ErrInvalidConfig, b.Kind)
			}
		case BackendStatic:
		default:
			return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, b.Kind)
		}
	}
	if c.PaletteSize < 0 {
		return fmt.Errorf("%w: palette_size must not be negative", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel)))
	return level, err
}
