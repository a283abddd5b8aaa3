package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nextcore/choreo/pkg/transition"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, transition.DefaultDurations, cfg.Transitions.Durations())
	assert.Equal(t, 3*time.Second, cfg.Navigation.ExitTimeout.Std())
	assert.Equal(t, 2*time.Second, cfg.Transitions.ExitFallback.Std())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "choreo.yaml", `
version: v1.2.0
transitions:
  enter: 820ms
  stagger: 150ms
navigation:
  exit_timeout: 5s
logging:
  level: debug
`)
	cfg, resolved, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, 820*time.Millisecond, cfg.Transitions.Enter.Std())
	assert.Equal(t, 150*time.Millisecond, cfg.Transitions.Stagger.Std())
	assert.Equal(t, 400*time.Millisecond, cfg.Transitions.Exit.Std(), "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Navigation.ExitTimeout.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "choreo.toml", `
version = "1.0.0"

[site]
base_url = "https://fest.example.net"

[transitions]
exit = "250ms"

[sound]
enabled = false
volume = 0.25
`)
	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Transitions.Exit.Std())
	assert.Equal(t, "https://fest.example.net", cfg.Site.BaseURL)
	assert.False(t, cfg.Sound.Enabled)
	assert.InDelta(t, 0.25, cfg.Sound.Volume, 1e-9)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "choreo.yaml", "version: v1.0.0\ntransitions:\n  stagger: 150ms\n")
	t.Setenv("CHOREO_TRANSITION_STAGGER", "75ms")
	t.Setenv("CHOREO_NAVIGATION_EXIT_TIMEOUT", "1s")
	t.Setenv("CHOREO_LOG_LEVEL", "warn")
	t.Setenv("CHOREO_SITE_TITLE", "NIGHTFEST")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75*time.Millisecond, cfg.Transitions.Stagger.Std())
	assert.Equal(t, time.Second, cfg.Navigation.ExitTimeout.Std())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "NIGHTFEST", cfg.Site.Title)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, resolved, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, resolved)
	assert.Equal(t, Default(), *cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "choreo.toml"), []byte("version = \"v1.0.0\"\n"), 0o644))
	_, resolved, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "choreo.toml", resolved)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{name: "unknown extension", file: "choreo.json", body: "{}", want: "unsupported config format"},
		{name: "bad duration", file: "choreo.yaml", body: "version: v1.0.0\ntransitions:\n  enter: soon\n", want: "parse config"},
		{name: "wrong major", file: "choreo.yaml", body: "version: v2.0.0\n", want: "not supported"},
		{name: "not semver", file: "choreo.yaml", body: "version: latest\n", want: "not a semantic version"},
		{name: "negative stagger", file: "choreo.yaml", body: "version: v1.0.0\ntransitions:\n  stagger: -1ms\n", want: "transitions.stagger"},
		{name: "zero fallback", file: "choreo.toml", body: "version = \"v1.0.0\"\n[transitions]\nexit_fallback = \"0s\"\n", want: "exit_fallback"},
		{name: "relative base url", file: "choreo.yaml", body: "version: v1.0.0\nsite:\n  base_url: /fest\n", want: "must be absolute"},
		{name: "loud", file: "choreo.yaml", body: "version: v1.0.0\nsound:\n  volume: 3\n", want: "sound.volume"},
		{name: "bad level", file: "choreo.yaml", body: "version: v1.0.0\nlogging:\n  level: chatty\n", want: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSample_RoundTripsToDefault(t *testing.T) {
	data, err := Sample("choreo.yaml")
	require.NoError(t, err)
	var fromYAML Config
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, Default(), fromYAML)

	data, err = Sample("choreo.toml")
	require.NoError(t, err)
	var fromTOML Config
	require.NoError(t, toml.Unmarshal(data, &fromTOML))
	assert.Equal(t, Default(), fromTOML)

	_, err = Sample("choreo.ini")
	require.Error(t, err)
}
