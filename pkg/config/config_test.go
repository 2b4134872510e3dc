// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgen/flowgen/pkg/codegen"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadSparseFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("framework: pytest\nindent_size: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, codegen.FrameworkPytest, cfg.Framework)
	assert.Equal(t, 2, cfg.IndentSize)
	assert.Equal(t, 9222, cfg.CapturePort)
	assert.Equal(t, ":8765", cfg.ListenAddr)
	assert.Equal(t, "double", cfg.QuoteStyle)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("framework: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Framework = codegen.FrameworkTypeScript
	cfg.QuoteStyle = "single"
	cfg.UseTabs = true

	path := filepath.Join(t.TempDir(), "nested", "flowgen.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCodegenOptions(t *testing.T) {
	cfg := Default()
	cfg.Framework = codegen.FrameworkJavaScript
	cfg.IndentSize = 2
	cfg.QuoteStyle = "Single"

	o := cfg.Codegen()
	assert.Equal(t, codegen.FrameworkJavaScript, o.Framework)
	assert.Equal(t, 2, o.IndentSize)
	assert.True(t, o.SingleQuotes)
	assert.False(t, o.UseTabs)
}
