package config

import (
	"os"
	"path/filepath"
	"testing"

	types "ClipForge/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
tools:
  d2vwitch_dir: /opt/tools
  ffmsindex_dir: /opt/tools
indexing:
  dir: /var/cache/clipforge
  reuse_indexes: false
  input_range: full
store:
  type: local
  local:
    base_path: /mnt/shared/indexes
logging:
  level: debug
  output: console
`)

	cfg, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/opt/tools", cfg.Tools.FFMSIndexDir)
	assert.Equal(t, "/var/cache/clipforge", cfg.Indexing.Dir)
	assert.False(t, cfg.Indexing.ReuseIndexes)
	assert.Equal(t, "full", cfg.Indexing.InputRange)
	assert.Equal(t, "local", cfg.Store.Type)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaultsWhenKeysAbsent(t *testing.T) {
	path := writeConfig(t, `
tools:
  fallback_dir: /usr/local/bin
`)

	cfg, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.Indexing.ReuseIndexes)
	assert.Equal(t, "limited", cfg.Indexing.InputRange)
	assert.Equal(t, types.DefaultPluginMap, cfg.Plugins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
}

func TestLoadExplicitReuseFalseSurvivesDefault(t *testing.T) {
	path := writeConfig(t, `
indexing:
  reuse_indexes: false
`)

	cfg, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.NoError(t, err)
	assert.False(t, cfg.Indexing.ReuseIndexes)
}

func TestLoadCustomPluginMap(t *testing.T) {
	path := writeConfig(t, `
plugins:
  - kind: ffms2
    plugin: ffms2.Source
    extensions: [".MKV", "WebM"]
`)

	cfg, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.NoError(t, err)
	require.Len(t, cfg.Plugins, 1)
	assert.Equal(t, types.KindFfms2, cfg.Plugins[0].Kind)
	assert.Equal(t, []string{"mkv", "webm"}, cfg.Plugins[0].Extensions)
}

func TestLoadRejectsInvalidInputRange(t *testing.T) {
	path := writeConfig(t, `
indexing:
  input_range: widescreen
`)

	_, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input_range")
}

func TestLoadRejectsInvalidKind(t *testing.T) {
	path := writeConfig(t, `
plugins:
  - kind: hologram
    plugin: holo.Source
    extensions: [holo]
`)

	_, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source kind")
}

func TestLoadRejectsIncompleteS3Store(t *testing.T) {
	path := writeConfig(t, `
store:
  type: s3
  s3:
    bucket: indexes
`)

	_, err := NewConfigLoader(zap.NewNop()).Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownStoreBackend(t *testing.T) {
	path := writeConfig(t, `
store:
  type: redis
`)

	_, err := NewConfigLoader(zap.NewNop()).Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid store backend")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewConfigLoader(zap.NewNop()).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Indexing.ReuseIndexes)
	assert.Equal(t, "limited", cfg.Indexing.InputRange)
	assert.Equal(t, types.DefaultPluginMap, cfg.Plugins)
	assert.Empty(t, cfg.Store.Type)
}
