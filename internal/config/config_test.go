package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "genesisPath: /data/genesis.bsl\nserviceName: ontograph-test\nwatchPaths:\n  - /data\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/genesis.bsl", cfg.GenesisPath)
	assert.Equal(t, "ontograph-test", cfg.ServiceName)
	assert.Equal(t, []string{"/data"}, cfg.WatchPaths)
}

func TestWriteTOMLThenLoadRoundtrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := Config{GenesisPath: "g.bsl", BootstrapPath: "b.bsl", ThesaurusPath: "t.bsl", ServiceName: "svc"}
	require.NoError(t, WriteTOML(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
