// Package config loads the simulator configuration: transition timing,
// navigation bounds, sound and logging settings.
//
// A config file is YAML (choreo.yaml) or TOML (choreo.toml), chosen by
// extension. Environment variables prefixed with CHOREO_ override the file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/nextcore/choreo/pkg/transition"
)

//go:embed sample.yaml
var sampleYAML []byte

// CurrentVersion is the config schema version written by Sample.
const CurrentVersion = "v1.0.0"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHOREO_"

// SearchPaths are tried in order when Load is given no path.
var SearchPaths = []string{"choreo.yaml", "choreo.yml", "choreo.toml"}

// Duration is a time.Duration written as a Go duration string ("400ms").
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Site describes the site being simulated.
type Site struct {
	Title   string `yaml:"title" toml:"title" env:"TITLE"`
	BaseURL string `yaml:"base_url" toml:"base_url" env:"BASE_URL"`
}

// Transitions holds the default timing for every scope.
type Transitions struct {
	Enter        Duration `yaml:"enter" toml:"enter" env:"ENTER"`
	Exit         Duration `yaml:"exit" toml:"exit" env:"EXIT"`
	Stagger      Duration `yaml:"stagger" toml:"stagger" env:"STAGGER"`
	ExitFallback Duration `yaml:"exit_fallback" toml:"exit_fallback" env:"EXIT_FALLBACK"`
}

// Durations converts the timing to the transition package's type.
func (t Transitions) Durations() transition.Durations {
	return transition.Durations{Enter: t.Enter.Std(), Exit: t.Exit.Std(), Stagger: t.Stagger.Std()}
}

// Navigation bounds the navigator.
type Navigation struct {
	ExitTimeout Duration `yaml:"exit_timeout" toml:"exit_timeout" env:"EXIT_TIMEOUT"`
}

// Sound controls the cue backend.
type Sound struct {
	Enabled bool    `yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Volume  float64 `yaml:"volume" toml:"volume" env:"VOLUME"`
}

// Logging selects the logger.
type Logging struct {
	Level       string `yaml:"level" toml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" toml:"development" env:"DEVELOPMENT"`
}

// Config is the whole simulator configuration.
type Config struct {
	Version     string      `yaml:"version" toml:"version" env:"VERSION"`
	Site        Site        `yaml:"site" toml:"site" envPrefix:"SITE_"`
	Transitions Transitions `yaml:"transitions" toml:"transitions" envPrefix:"TRANSITION_"`
	Navigation  Navigation  `yaml:"navigation" toml:"navigation" envPrefix:"NAVIGATION_"`
	Sound       Sound       `yaml:"sound" toml:"sound" envPrefix:"SOUND_"`
	Logging     Logging     `yaml:"logging" toml:"logging" envPrefix:"LOG_"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		Site: Site{
			Title:   "TECHFEST",
			BaseURL: "https://techfest.example.org",
		},
		Transitions: Transitions{
			Enter:        Duration(transition.DefaultDurations.Enter),
			Exit:         Duration(transition.DefaultDurations.Exit),
			Stagger:      Duration(transition.DefaultDurations.Stagger),
			ExitFallback: Duration(transition.DefaultExitFallback),
		},
		Navigation: Navigation{ExitTimeout: Duration(3 * time.Second)},
		Sound:      Sound{Enabled: true, Volume: 0.6},
		Logging:    Logging{Level: "info"},
	}
}

// Load reads path (or the first of SearchPaths that exists when path is
// empty), applies environment overrides and validates the result. It returns
// the config and the file it came from, which is empty when none was found.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, "", err
	}
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
		if err := decode(resolved, data, &cfg); err != nil {
			return nil, "", fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("stat config: %w", err)
		}
		return path, nil
	}
	for _, candidate := range SearchPaths {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat config: %w", err)
		}
	}
	return "", nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
}

// Sample returns a starter config for path, formatted by its extension.
func Sample(path string) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", "":
		return sampleYAML, nil
	case ".toml":
		return toml.Marshal(Default())
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVersion(); err != nil {
		return err
	}
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateTimings(); err != nil {
		return err
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return errors.New("sound.volume must be between 0 and 1")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validateVersion() error {
	v := strings.TrimSpace(c.Version)
	if v == "" {
		return errors.New("version is required")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a semantic version", c.Version)
	}
	if major := semver.Major(v); major != semver.Major(CurrentVersion) {
		return fmt.Errorf("config version %s is not supported (want %s.x)", v, semver.Major(CurrentVersion))
	}
	return nil
}

func (c *Config) validateSite() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("site.base_url %q must be absolute", c.Site.BaseURL)
	}
	return nil
}

func (c *Config) validateTimings() error {
	for _, field := range []struct {
		name string
		d    Duration
	}{
		{"transitions.enter", c.Transitions.Enter},
		{"transitions.exit", c.Transitions.Exit},
		{"transitions.stagger", c.Transitions.Stagger},
	} {
		if field.d < 0 {
			return fmt.Errorf("%s must not be negative", field.name)
		}
	}
	if c.Transitions.ExitFallback <= 0 {
		return errors.New("transitions.exit_fallback must be positive")
	}
	if c.Navigation.ExitTimeout <= 0 {
		return errors.New("navigation.exit_timeout must be positive")
	}
	return nil
}
