package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbq191/egovgen/internal/xdg"
)

func newLoader(t *testing.T) (*ConfigLoader, *viper.Viper, string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_DATA_DIRS", filepath.Join(root, "shared"))
	t.Setenv("HOME", filepath.Join(root, "home"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	v := viper.New()
	return NewConfigLoader(v, xdg.NewManager(logger), logger), v, root
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	loader, _, root := newLoader(t)

	cfg, err := loader.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "data", "egovgen", "templates", "catalog.yaml"), cfg.Catalog)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, 0, cfg.MaxWorkers)
	assert.True(t, cfg.Interactive)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfigFromXDGConfigDir(t *testing.T) {
	loader, _, root := newLoader(t)
	path := filepath.Join(root, "config", "egovgen", "egovgen.yaml")
	writeConfig(t, path, "catalog: /srv/catalog.yaml\nlog_level: DEBUG\nmax_workers: 4\ninteractive: false\n")

	cfg, err := loader.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/srv/catalog.yaml", cfg.Catalog)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.False(t, cfg.Interactive)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	loader, _, root := newLoader(t)
	path := filepath.Join(root, "custom.toml")
	writeConfig(t, path, "output_dir = \"/from/file\"\nmax_workers = 2\n")
	t.Setenv("EGOVGEN_OUTPUT_DIR", "/from/env")

	cfg, err := loader.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.OutputDir)
	assert.Equal(t, 2, cfg.MaxWorkers)
}

func TestLoadConfigExplicitOverrideWins(t *testing.T) {
	loader, v, _ := newLoader(t)
	t.Setenv("EGOVGEN_CATALOG", "/from/env.yaml")
	v.Set(KeyCatalog, "/from/flag.yaml")

	cfg, err := loader.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.yaml", cfg.Catalog)
}

func TestLoadConfigValidation(t *testing.T) {
	loader, _, root := newLoader(t)
	path := filepath.Join(root, "bad.json")
	writeConfig(t, path, `{"log_level": "loud", "max_workers": 100}`)

	_, err := loader.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "MaxWorkers")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	loader, _, root := newLoader(t)

	_, err := loader.LoadConfig(filepath.Join(root, "nope.yaml"))
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("bogus"))
}
