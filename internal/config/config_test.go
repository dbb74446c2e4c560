package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemaform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, `
deny_list: [secret, token]
max_ref_depth: 8
allow_http: true
http_timeout: 3s
output: yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"secret", "token"}, cfg.DenyList)
	assert.Equal(t, 8, cfg.MaxRefDepth)
	assert.True(t, cfg.AllowHTTP)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, OutputYAML, cfg.Output)
}

func TestLoad_DefaultsWhenNoFileFound(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, loadErr := Load("")
	require.NoError(t, loadErr)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output: json\nmax_ref_depth: 4\n")
	t.Setenv("SCHEMAFORM_OUTPUT", "yaml")
	t.Setenv("SCHEMAFORM_MAX_REF_DEPTH", "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, 12, cfg.MaxRefDepth)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownOutput(t *testing.T) {
	path := writeConfig(t, "output: xml\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output must be")
}

func TestConfig_LoaderOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.LoaderOptions()
	assert.False(t, opts.AllowHTTPFallback)

	cfg.AllowHTTP = true
	cfg.HTTPTimeout = time.Second
	opts = cfg.LoaderOptions()
	assert.True(t, opts.AllowHTTPFallback)
	assert.Equal(t, time.Second, opts.RequestTimeout)
}

func TestConfig_YAMLRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.AllowHTTP = true
	cfg.HTTPTimeout = 1500 * time.Millisecond

	raw, err := cfg.YAML()
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &generic))
	assert.Equal(t, "1.5s", generic["http_timeout"])

	loaded, err := Load(writeConfig(t, string(raw)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
