// Package config loads the user panel settings from the environment.
// Settings are parsed and validated once, at startup; nothing reads
// the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/elizafairlady/userpanel/ui/fetch"
)

// Render modes.
const (
	RenderText = "text"
	RenderTree = "tree"
)

// Config holds every setting of the user panel.
type Config struct {
	Endpoint     string        `env:"USERPANEL_ENDPOINT"      envDefault:"http://localhost:8000/"`
	FetchTimeout time.Duration `env:"USERPANEL_FETCH_TIMEOUT" envDefault:"0s"`
	LogLevel     slog.Level    `env:"USERPANEL_LOG_LEVEL"     envDefault:"info"`
	Render       string        `env:"USERPANEL_RENDER"        envDefault:"text"`
	Color        bool          `env:"USERPANEL_COLOR"         envDefault:"true"`
	Language     string        `env:"USERPANEL_LANG"          envDefault:"en"`

	// OTelEndpoint enables tracing when set.
	OTelEndpoint string `env:"USERPANEL_OTEL_ENDPOINT"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := fetch.ParseEndpoint(c.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch timeout %s is negative", c.FetchTimeout))
	}
	if c.Render != RenderText && c.Render != RenderTree {
		errs = append(errs, fmt.Errorf("render mode %q: want %q or %q", c.Render, RenderText, RenderTree))
	}
	if _, err := language.Parse(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("language %q: %w", c.Language, err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Tag returns the parsed language, falling back to English.
func (c Config) Tag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.English
	}
	return tag
}
