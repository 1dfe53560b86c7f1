package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Corpus.Endpoint)
	assert.Equal(t, DefaultCorpus, cfg.Corpus.DefaultCorpus)
	assert.Equal(t, 20, cfg.Corpus.PageSize)
	assert.Equal(t, "bam_search_", cfg.Output.Prefix)
	assert.Equal(t, ';', cfg.Output.DelimiterRune())
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
dsn = "postgres://localhost/bam"

[corpus]
default_corpus = "corbama-net-tonal"
page_size = 50
timeout = "5s"
respect_robots = true

[output]
dir = "out"
delimiter = ","

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/bam", cfg.DSN)
	assert.Equal(t, "corbama-net-tonal", cfg.Corpus.DefaultCorpus)
	assert.Equal(t, 50, cfg.Corpus.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Corpus.GetTimeout())
	assert.True(t, cfg.Corpus.RespectRobots)
	assert.Equal(t, DefaultEndpoint, cfg.Corpus.Endpoint)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, ',', cfg.Output.DelimiterRune())
	assert.Equal(t, "_na_", cfg.Output.Placeholder)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[corpus\npage_size = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_NonPositivePageSizeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[corpus]\npage_size = 0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, cfg.Corpus.PageSize)
}

func TestGetTimeout_Fallback(t *testing.T) {
	c := CorpusConfig{Timeout: "soon"}
	assert.Equal(t, DefaultTimeout, c.GetTimeout())
}
