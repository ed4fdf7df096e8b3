package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	require.Equal(t, 48000.0, cfg.SampleRate)
	require.Equal(t, 512, cfg.MaxBlockSize)
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	yaml := "sample_rate: 44100\ndiscovery_dirs:\n  - /opt/plugins\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 44100.0, cfg.SampleRate)
	require.Equal(t, 512, cfg.MaxBlockSize, "unset field should keep the default")
	require.Equal(t, []string{"/opt/plugins"}, cfg.DiscoveryDirs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestAllDiscoveryDirsAppendsOverrides(t *testing.T) {
	cfg := Default()
	cfg.DiscoveryDirs = []string{"/extra"}
	dirs := cfg.AllDiscoveryDirs()
	require.Equal(t, "/extra", dirs[len(dirs)-1])
	require.Len(t, dirs, len(StandardDiscoveryDirs())+1)
}
