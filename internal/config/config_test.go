package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Catalog.BaseURL)
	assert.Equal(t, "zh-CN", cfg.Catalog.Language)
	assert.Equal(t, MatchModeNormal, cfg.Resolver.MatchMode)
	assert.Equal(t, 5, cfg.Resolver.WebProbeTimeout)
	assert.Equal(t, 128, cfg.Resolver.WebProbeCacheSize)
	assert.False(t, cfg.Resolver.SearchKeyword)
	assert.True(t, cfg.Resolver.WantChinese)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
catalog:
  api_key: from-file
  language: en-US
resolver:
  match_mode: strict
  search_keyword: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("REELID_CATALOG_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Catalog.APIKey)
	assert.Equal(t, "en-US", cfg.Catalog.Language)
	assert.True(t, cfg.Resolver.Strict())
	assert.True(t, cfg.Resolver.SearchKeyword)
}

func TestResolverConfig_Strict(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{"normal", false},
		{"strict", true},
		{"STRICT", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := ResolverConfig{MatchMode: tt.mode}
			assert.Equal(t, tt.want, cfg.Strict())
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 9000}
	assert.Equal(t, "127.0.0.1:9000", cfg.Address())
}
