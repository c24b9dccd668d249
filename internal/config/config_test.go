package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/tinyc/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(Default(), cfg)
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(Default(), cfg)
}

func TestLoad_FileOverridesOnlySetFields(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "tinyc.toml")
	require.NoError(t, os.WriteFile(path, []byte("tab_width = 8\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(8, cfg.TabWidth)
	assert.Equal("manual", cfg.Backend) // untouched, still the default
}

func TestBuildGrammar_DefaultIsLL1(t *testing.T) {
	g, err := Default().BuildGrammar()
	require.NoError(t, err)
	require.NotNil(t, g)

	first := grammar.First(g)
	table := grammar.NewTable(g, first, grammar.Follow(g, first))
	require.True(t, table.IsLL1(), "conflicts: %v", table.Conflicts())
}

func TestBuildPipeline_DefaultConfigRuns(t *testing.T) {
	assert := assert.New(t)

	p, err := Default().BuildPipeline()
	require.NoError(t, err)

	res := p.Run("int main ( ) { return 0 ; }", Default().ScannerBackend())
	assert.Equal("success", string(res.Status))
}
