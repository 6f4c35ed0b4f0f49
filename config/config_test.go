package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadTestConfig(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")

	cfg, err := Load()
	assert.NoError(err)

	assert.Equal("8081", cfg.GetPort())
	assert.Equal("./.lexfeat_test_storage", cfg.GetStoragePath())
	assert.Equal("metadata.db", cfg.GetKVDBPath())
	assert.Equal("tokens.bleve", cfg.GetIndexPath())
	assert.Equal(`.*\.(c|h)$`, cfg.GetFilePattern())
	assert.Equal("strict", cfg.GetFilterPolicy())
	assert.True(cfg.GetStripComments())
	assert.Equal("corpus.ckpt", cfg.GetCheckpointPath())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("FILTER_POLICY", "unfiltered")
	t.Setenv("STRIP_COMMENTS", "false")

	cfg, err := Load()
	assert.NoError(err)

	assert.Equal("9999", cfg.GetPort())
	assert.Equal("unfiltered", cfg.GetFilterPolicy())
	assert.False(cfg.GetStripComments())
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "missing")

	cfg, err := Load()
	assert.NoError(err)

	assert.Equal(`.*\.c$`, cfg.GetFilePattern())
	assert.Equal("strict", cfg.GetFilterPolicy())
	assert.True(cfg.GetStripComments())
	assert.Empty(cfg.GetCheckpointPath())
}
