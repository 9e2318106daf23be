package xdg

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate 将全部 XDG 目录指向临时目录
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_DIRS", filepath.Join(root, "shared"))
	Reload()
	t.Cleanup(Reload)
	return root
}

func newManager() *Manager {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewManager(logger)
}

func TestGetXDGPath(t *testing.T) {
	root := isolate(t)
	m := newManager()

	for dirType, want := range map[XDGDirectory]string{
		ConfigHome: filepath.Join(root, "config", AppName),
		DataHome:   filepath.Join(root, "data", AppName),
		StateHome:  filepath.Join(root, "state", AppName),
		CacheHome:  filepath.Join(root, "cache", AppName),
	} {
		got, err := m.GetXDGPath(dirType)
		require.NoError(t, err)
		assert.Equal(t, want, got, dirType.String())
	}

	_, err := m.GetXDGPath(XDGDirectory(99))
	assert.Error(t, err)
}

func TestEnsureDirectoriesAndStatus(t *testing.T) {
	isolate(t)
	m := newManager()

	for _, s := range m.Status() {
		assert.False(t, s.Exists, s.Type.String())
	}

	require.NoError(t, m.EnsureDirectories())
	statuses := m.Status()
	require.Len(t, statuses, len(All))
	for _, s := range statuses {
		assert.True(t, s.Exists, s.Type.String())
		assert.True(t, s.Writable, s.Type.String())
	}
}

func TestDefaultCatalogPath(t *testing.T) {
	root := isolate(t)
	m := newManager()

	want := filepath.Join(root, "data", AppName, CatalogRelPath)
	assert.Equal(t, want, m.DefaultCatalogPath())

	shared := filepath.Join(root, "shared", AppName, CatalogRelPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(shared), 0o755))
	require.NoError(t, os.WriteFile(shared, []byte("[]"), 0o644))
	assert.Equal(t, shared, m.DefaultCatalogPath())
}

func TestConfigSearchPaths(t *testing.T) {
	root := isolate(t)
	paths := newManager().ConfigSearchPaths()

	require.GreaterOrEqual(t, len(paths), 2)
	assert.Equal(t, ".", paths[0])
	assert.Equal(t, filepath.Join(root, "config", AppName), paths[1])
}
