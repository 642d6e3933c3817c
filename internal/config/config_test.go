package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_Values(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte("output: '-'\ntoken_estimator: tiktoken\n"), 0644))

	cfg, err := Load(root)
	assert.NoError(err)
	assert.Equal("-", cfg.Output)
	assert.Equal("tiktoken", cfg.TokenEstimator)
}

func TestLoad_Malformed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("output: [unterminated"), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}
