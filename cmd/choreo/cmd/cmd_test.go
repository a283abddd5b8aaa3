package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextcore/choreo/pkg/errors"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	old := errors.DefaultHandler
	t.Cleanup(func() { errors.SetHandler(old) })

	root := newRootCommand(&commandContext{logOutput: io.Discard})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "choreo version "+Version)
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runCLI(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults were used")
	assert.Contains(t, out, "Configuration valid")

	out, err = runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration to choreo.yaml")

	_, err = runCLI(t, "config", "init")
	require.Error(t, err, "refuses to overwrite")

	out, err = runCLI(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: choreo.yaml")
	assert.Contains(t, out, "stagger 100ms")

	target := filepath.Join("nested", "choreo.toml")
	_, err = runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	out, err = runCLI(t, "--config", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestConfigValidate_RejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "choreo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v3.0.0\n"), 0o644))

	_, err := runCLI(t, "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestSimulate_DefaultTour(t *testing.T) {
	t.Chdir(t.TempDir())
	chart := filepath.Join(t.TempDir(), "timeline.png")

	out, err := runCLI(t, "simulate", "--png", chart)
	require.NoError(t, err)
	assert.Contains(t, out, "committed")
	assert.Contains(t, out, "/register")
	assert.Contains(t, out, "REGISTRATION OPEN")
	assert.Contains(t, out, "Wrote chart to "+chart)

	info, err := os.Stat(chart)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSimulate_ScriptFile(t *testing.T) {
	t.Chdir(t.TempDir())
	script := filepath.Join(t.TempDir(), "visit.yaml")
	require.NoError(t, os.WriteFile(script, []byte("name: quick\nstart: /events\nsteps:\n  - navigate: /\n"), 0o644))

	out, err := runCLI(t, "simulate", "--script", script)
	require.NoError(t, err)
	assert.Contains(t, out, "Three days of code")

	_, err = runCLI(t, "simulate", "--script", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
