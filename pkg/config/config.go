package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultEndpoint = "http://maslinsky.spb.ru/bonito/run.cgi/first"
	DefaultCorpus   = "corbama-net-non-tonal"
	DefaultPageSize = 20
	DefaultTimeout  = 30 * time.Second
)

type Config struct {
	DSN     string        `toml:"dsn"`
	Corpus  CorpusConfig  `toml:"corpus"`
	Output  OutputConfig  `toml:"output"`
	Logging LoggingConfig `toml:"logging"`
}

type CorpusConfig struct {
	Endpoint      string `toml:"endpoint"`
	DefaultCorpus string `toml:"default_corpus"`
	PageSize      int    `toml:"page_size"`
	UserAgent     string `toml:"user_agent"`
	Timeout       string `toml:"timeout"`
	RespectRobots bool   `toml:"respect_robots"`
}

type OutputConfig struct {
	Dir         string `toml:"dir"`
	Prefix      string `toml:"prefix"`
	Delimiter   string `toml:"delimiter"`
	Placeholder string `toml:"placeholder"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	cfg.Corpus.Endpoint = DefaultEndpoint
	cfg.Corpus.DefaultCorpus = DefaultCorpus
	cfg.Corpus.PageSize = DefaultPageSize
	cfg.Corpus.UserAgent = "bamsearch/1.0"
	cfg.Corpus.Timeout = "30s"
	cfg.Output.Dir = "."
	cfg.Output.Prefix = "bam_search_"
	cfg.Output.Delimiter = ";"
	cfg.Output.Placeholder = "_na_"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "info"
	return &cfg
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	err = toml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Corpus.PageSize <= 0 {
		cfg.Corpus.PageSize = DefaultPageSize
	}

	return cfg, nil
}

func (c *CorpusConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout // Fallback
	}
	return d
}

// DelimiterRune returns the first rune of the configured delimiter, ';' when unset.
func (c *OutputConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ';'
}
